package profile

import (
	"github.com/janisto/profilehub/internal/timeutil"

	profilesvc "github.com/janisto/profilehub/internal/service/profile"
)

// Profile is the wire representation of a profile record.
type Profile struct {
	ID        string        `json:"id" doc:"Store-assigned identifier" example:"0d9a1f5e-7b1c-4a5e-9a39-2f6f4f1a2b3c"`
	Name      string        `json:"name" doc:"Full name" example:"Jane Doe"`
	Email     string        `json:"email" doc:"Normalized email address, the record's natural key" example:"jane@example.com"`
	Age       int           `json:"age" doc:"Age in years" example:"30"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation timestamp"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last modification timestamp"`
}

func toHTTPProfile(p *profilesvc.Profile) Profile {
	return Profile{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Age:       p.Age,
		CreatedAt: timeutil.New(p.CreatedAt),
		UpdatedAt: timeutil.New(p.UpdatedAt),
	}
}

func toHTTPProfiles(records []*profilesvc.Profile) []Profile {
	out := make([]Profile, 0, len(records))
	for _, p := range records {
		out = append(out, toHTTPProfile(p))
	}
	return out
}
