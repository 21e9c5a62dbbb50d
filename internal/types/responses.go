package types

type UserResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	OrgName string `json:"org_name"`
	OrgSlug string `json:"org_slug"`
	Plan    string `json:"plan"`
}
