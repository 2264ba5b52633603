package main

type User struct {
	UserID   int64   `json:"user_id"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"-"` // bcrypt hash, never serialised
	Address  *string `json:"address"`
}

// UserInput carries a plaintext password; handlers hash it before it reaches
// the repository.
type UserInput struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
	Password Optional[string] `json:"password"`
	Address  Optional[string] `json:"address"`
}

func (in UserInput) assignments() []assignment {
	var a []assignment
	a = appendSet(a, "username", in.Username)
	a = appendSet(a, "email", in.Email)
	a = appendSet(a, "password", in.Password)
	a = appendSet(a, "address", in.Address)
	return a
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
