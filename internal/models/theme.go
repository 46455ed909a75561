package models

// ThemeData is the content of a theme file.
type ThemeData struct {
	SeparatorColor string `json:"separatorColor"`
}
