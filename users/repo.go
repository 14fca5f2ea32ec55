package users

// ListResponse is one page of users.
type ListResponse struct {
	Users       []*User
	Total       int
	CurrentPage int
	TotalPages  int
}

type UserRepo interface {
	Upsert(user *User) error
	Delete(id string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List(role RoleType, page, limit int) (ListResponse, error)
	ListByRole(role RoleType) ([]*User, error)
	SetActive(id string, active bool) error
}
