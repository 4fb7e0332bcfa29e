package session

type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ProfilePatch carries only the fields being changed.
type ProfilePatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	return u
}

const (
	DemoEmail    = "demo@food.com"
	DemoPassword = "demo123"
	DemoToken    = "demo-token"
)

func DemoUser() User {
	return User{
		ID:      1,
		Name:    "Demo User",
		Email:   DemoEmail,
		Phone:   "+1234567890",
		Address: "123 Demo Street, Demo City",
	}
}
