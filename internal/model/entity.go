package model

import "time"

// TextField names one of the profile-weighted text fields of an Entity.
type TextField string

const (
	FieldAddress   TextField = "address"
	FieldSignature TextField = "signature"
	FieldStrengths TextField = "strengths"
	FieldKeywords  TextField = "keywords"
	FieldReviewURL TextField = "review_url"
	FieldInstaURL  TextField = "insta_url"
)

// TextFields lists the weighted text fields in display order.
var TextFields = []TextField{
	FieldAddress,
	FieldSignature,
	FieldStrengths,
	FieldKeywords,
	FieldReviewURL,
	FieldInstaURL,
}

// Entity is a storefront profile owned by a single operator account.
type Entity struct {
	ID          int64     `json:"id" db:"id"`
	OperatorID  string    `json:"operator_id" db:"operator_id"`
	Name        string    `json:"name" db:"name" validate:"required,max=100"`
	Category    string    `json:"category" db:"category" validate:"required,max=50"`
	Subcategory string    `json:"subcategory" db:"subcategory" validate:"max=50"`
	Address     string    `json:"address" db:"address" validate:"max=300"`
	Target      string    `json:"target" db:"target" validate:"max=300"`
	Signature   string    `json:"signature" db:"signature" validate:"max=1000"`
	Strengths   string    `json:"strengths" db:"strengths" validate:"max=1000"`
	Keywords    string    `json:"keywords" db:"keywords" validate:"max=500"`
	ReviewURL   string    `json:"review_url" db:"review_url" validate:"omitempty,url,max=500"`
	InstaURL    string    `json:"insta_url" db:"insta_url" validate:"omitempty,url,max=500"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Field returns the raw value of a weighted text field.
func (e *Entity) Field(f TextField) string {
	switch f {
	case FieldAddress:
		return e.Address
	case FieldSignature:
		return e.Signature
	case FieldStrengths:
		return e.Strengths
	case FieldKeywords:
		return e.Keywords
	case FieldReviewURL:
		return e.ReviewURL
	case FieldInstaURL:
		return e.InstaURL
	}
	return ""
}
