package models

// All returns one instance of every persisted record type, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}}
}
