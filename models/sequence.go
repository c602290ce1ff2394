package models

// Sequence is a named monotonic counter used to mint document numbers.
type Sequence struct {
	Name       string `gorm:"column:name;primaryKey;type:varchar(64)"`
	Prefix     string `gorm:"column:prefix;type:varchar(32);not null;default:''"`
	LastNumber int64  `gorm:"column:last_number;not null;default:0"`
}

func (Sequence) TableName() string { return "sequences" }
