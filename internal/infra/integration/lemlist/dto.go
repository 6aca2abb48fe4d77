package lemlist

// SyncResult é o resultado do SyncLead. IDs só vêm quando a resposta é JSON.
type SyncResult struct {
	Success          bool
	LemlistID        string
	LemlistContactID string
}

type createLeadRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	CompanyName  string `json:"companyName"`
	JobTitle     string `json:"jobTitle"`
	LinkedinURL  string `json:"linkedinUrl"`
	Phone        string `json:"phone"`
	Timezone     string `json:"timezone"`
	ContactOwner string `json:"contactOwner,omitempty"`
}

type createLeadResponse struct {
	ID        string `json:"_id"`
	ContactID string `json:"contactId"`
}

type sendLinkedInRequest struct {
	SendUserID string `json:"sendUserId"`
	LeadID     string `json:"leadId"`
	ContactID  string `json:"contactId"`
	Message    string `json:"message"`
}
