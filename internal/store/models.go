package store

import "time"

type BookModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Title           string `gorm:"size:200;not null"`
	Author          string `gorm:"size:100;not null"`
	ISBN            string `gorm:"column:isbn;size:13;uniqueIndex;not null"`
	TotalCopies     int    `gorm:"not null"`
	AvailableCopies int    `gorm:"not null"`
	CreatedAt       time.Time
}

func (BookModel) TableName() string { return "books" }

type BorrowRecordModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PatronID   string    `gorm:"size:6;index;not null"`
	BookID     int64     `gorm:"index;not null"`
	BorrowDate time.Time `gorm:"not null"`
	DueDate    time.Time `gorm:"not null"`
	ReturnDate *time.Time
}

func (BorrowRecordModel) TableName() string { return "borrow_records" }
