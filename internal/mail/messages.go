package mail

import (
	"encoding/json"
	"time"
)

// Job kinds routed through the mail queue.
const (
	JobInvitation = "invitation"
	JobWelcome    = "welcome"
)

// Job is a queued outbound email. The worker renders the body from the
// kind-specific fields, so the API process never talks SMTP directly.
type Job struct {
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`

	// Invitation fields.
	GroupName   string `json:"group_name,omitempty"`
	InviterName string `json:"inviter_name,omitempty"`
	AcceptURL   string `json:"accept_url,omitempty"`

	// Welcome fields.
	UserName string `json:"user_name,omitempty"`
}

// NewInvitationJob creates a job inviting email to join groupName.
func NewInvitationJob(email, groupName, inviterName, acceptURL string) *Job {
	return &Job{
		Kind:        JobInvitation,
		To:          email,
		Timestamp:   time.Now(),
		GroupName:   groupName,
		InviterName: inviterName,
		AcceptURL:   acceptURL,
	}
}

// NewWelcomeJob creates a job greeting a freshly registered user.
func NewWelcomeJob(email, userName string) *Job {
	return &Job{
		Kind:      JobWelcome,
		To:        email,
		Timestamp: time.Now(),
		UserName:  userName,
	}
}

// ToJSON converts the job to JSON bytes.
func (j *Job) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// JobFromJSON creates a job from JSON bytes.
func JobFromJSON(data []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
