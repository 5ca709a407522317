package domain

// Submission details for the objection campaign. Letters are emailed or
// posted to the Home Department before the objection window closes.
const (
	RecipientEmail   = "homesec@tn.gov.in"
	RecipientAddress = "Additional Chief Secretary to Government, Home Department, Secretariat, Chennai-600 009"
)

// Amendment describes the notification under objection.
type Amendment struct {
	Rule             string `json:"rule"`
	NotificationDate string `json:"notification_date"`
	GazetteNo        string `json:"gazette_no"`
	Deadline         string `json:"deadline"`
}

// AmendmentDetails is the Rule 288-A notification this campaign objects to.
var AmendmentDetails = Amendment{
	Rule:             "288-A",
	NotificationDate: "8th December 2025",
	GazetteNo:        "SRO A-37/2025",
	Deadline:         "7th January 2026",
}
