package mail

type EnrollmentEmailData struct {
	Name string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	OpsInbox string // destino dos alertas de falha de reconciliação
}
