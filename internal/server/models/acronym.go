package models

// Acronym is the tagged entity: a short form, its expansion and its owner.
type Acronym struct {
	ID     string `json:"id"`
	Short  string `json:"short"`
	Long   string `json:"long"`
	UserID string `json:"userID"`
}

// Category is a tag. Names are unique and compared case-sensitively.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AcronymCategory links one acronym to one category.
type AcronymCategory struct {
	ID         string
	AcronymID  string
	CategoryID int64
}
