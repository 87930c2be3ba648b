package models

const (
	CampaignDraft     = "Draft"
	CampaignPublished = "Published"
)

type Campaign struct {
	ID ID `json:"id"`
	CampaignFields
}

func (c Campaign) RowID() ID { return c.ID }

type CampaignFields struct {
	Name           string `json:"name"`
	Channel        string `json:"channel"`
	StartDate      string `json:"startDate,omitempty"`
	EmailFrom      string `json:"emailFrom,omitempty"`
	AudienceListID ID     `json:"audienceListId,omitempty"`
	TemplateID     ID     `json:"templateId,omitempty"`
	To             string `json:"to,omitempty"`
	CC             string `json:"cc,omitempty"`
	BCC            string `json:"bcc,omitempty"`
	RepeatType     string `json:"repeatType,omitempty"`
	RepeatEvery    int    `json:"repeatEvery,omitempty"`
	RepeatOn       string `json:"repeatOn,omitempty"`
	RepeatEndsOn   string `json:"repeatEndsOn,omitempty"`
	IsRepeat       bool   `json:"isRepeat"`
	Status         string `json:"status,omitempty"`
}

// DefaultCampaignFields mirrors the blank form of a new campaign.
func DefaultCampaignFields() CampaignFields {
	return CampaignFields{Channel: "Email", RepeatType: "none", Status: CampaignDraft}
}

// ToggledStatus returns the status a campaign moves to when toggled.
func (c Campaign) ToggledStatus() string {
	if c.Status == CampaignDraft {
		return CampaignPublished
	}
	return CampaignDraft
}
