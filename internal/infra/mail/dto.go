package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	// From and SalesInbox are fixed addresses for the product.
	From       string
	SalesInbox string
}

// LeadNotificationData feeds the HTML template sent to the sales team.
type LeadNotificationData struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Restaurant  string
	RequestType string
	Message     string
	Source      string
	CapturedAt  string
}
