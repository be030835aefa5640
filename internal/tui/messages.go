package tui

// replyMsg carries the backend's answer for a forwarded query
type replyMsg struct {
	query string
	text  string
	err   error
}

// storeChangedMsg is sent when a state file changed on disk
type storeChangedMsg struct {
	name string
}

// copiedMsg reports the result of a clipboard copy
type copiedMsg struct {
	chars int
	err   error
}
