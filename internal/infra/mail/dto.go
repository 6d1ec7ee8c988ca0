package mail

// AlertEmailData feeds the sales-alert templates.
type AlertEmailData struct {
	LeadID      string
	Name        string
	Email       string
	Company     string
	ProjectType string
	BudgetRange string
	Timeline    string
	Score       int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	From       string
	ReplyTo    string
	SalesInbox string
}
