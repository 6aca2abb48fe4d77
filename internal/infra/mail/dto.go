package mail

import "gopkg.in/gomail.v2"

type ReplyEmailData struct {
	LeadID     string
	LeadName   string
	Stage      string
	Content    string
	ReceivedAt string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type ReplyNotifier struct {
	From   string
	To     string
	dialer sender
}
