package domain

import "time"

// Review represents a rating left on a vendor. HygieneRating is optional;
// when present it feeds the vendor's hygiene aggregate as well.
type Review struct {
	ID            string    `json:"id"`
	VendorID      string    `json:"vendor_id"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	HygieneRating *int      `json:"hygiene_rating,omitempty"`
	Body          string    `json:"body"`
	Images        []string  `json:"images,omitempty"`
	HelpfulCount  int       `json:"helpful_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewAuthor is the public slice of a user attached to their reviews.
type ReviewAuthor struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// ReviewWithAuthor is the listing projection: the review enriched with its
// author. Deleted or unknown authors render as "Anonymous User".
type ReviewWithAuthor struct {
	Review
	User ReviewAuthor `json:"user"`
}

// AnonymousAuthor is the fallback for reviews whose author no longer exists.
func AnonymousAuthor(uid string) ReviewAuthor {
	return ReviewAuthor{UID: uid, DisplayName: "Anonymous User"}
}
