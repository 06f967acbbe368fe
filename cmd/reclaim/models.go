package main

import "time"

// View models for daemon API responses.

type reportView struct {
	ItemID        string    `json:"itemId"`
	Kind          string    `json:"kind"`
	ReporterUID   string    `json:"reporterUid"`
	ItemName      string    `json:"itemName"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Images        []string  `json:"images"`
	LocationLabel string    `json:"locationLabel"`
	DateOfEvent   time.Time `json:"dateOfEvent"`
	ClaimStatus   string    `json:"claimStatus"`
	Archived      bool      `json:"archived"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type outcomeView struct {
	UID        string `json:"uid"`
	Type       string `json:"type"`
	Delivered  bool   `json:"delivered"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skipReason"`
	EmailError string `json:"emailError"`
}

type verifyView struct {
	ItemID            string        `json:"itemId"`
	AlreadyPosted     bool          `json:"alreadyPosted"`
	ManagementUpdated int64         `json:"managementUpdated"`
	Notifications     []outcomeView `json:"notifications"`
}

type claimView struct {
	ItemID         string `json:"itemId"`
	AlreadyClaimed bool   `json:"alreadyClaimed"`
	ClaimStatus    string `json:"claimStatus"`
}

type notificationView struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"timestamp"`
}

type statusView struct {
	Running      bool   `json:"running"`
	DatabasePath string `json:"databasePath"`
	PendingFound int    `json:"pendingFound"`
}
