package model

// Backends groups all storage interfaces used by the application.
type Backends struct {
	Articles ArticlesStore
	Users    UsersStore
}
