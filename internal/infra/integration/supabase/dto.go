package supabase

// leadRow maps the leads table columns exposed by PostgREST.
type leadRow struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Restaurant  string  `json:"restaurant"`
	RequestType string  `json:"request_type"`
	Message     *string `json:"message,omitempty"`
	Status      string  `json:"status"`
	Source      *string `json:"source,omitempty"`
	AffiliateID *string `json:"affiliate_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type userRoleRow struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// gotrueUser is the subset of GET /auth/v1/user we care about.
type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
