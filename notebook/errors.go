package notebook

import "fmt"

type (
	UserNotFound struct {
		Username string
		ID       int64
	}

	UsernameTaken struct {
		Username string
	}

	NoteNotFound struct {
		ID int64
	}
)

func (u UserNotFound) Error() string {
	if u.Username != "" {
		return fmt.Sprintf("user %v not found", u.Username)
	}
	return fmt.Sprintf("user %v not found", u.ID)
}

func (u UsernameTaken) Error() string {
	return fmt.Sprintf("username %v is already taken", u.Username)
}

func (n NoteNotFound) Error() string {
	return fmt.Sprintf("note %v not found", n.ID)
}
