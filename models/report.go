package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ReportContentPhoto = "photo"
	ReportContentBio   = "bio"
)

// Report stores the outcome of an AI review of reported content. When the
// review itself fails the report is kept with NeedsReview set so a human
// can pick it up; it is never silently dropped.
type Report struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID       primitive.ObjectID `bson:"profileId" json:"profileId"`
	ReporterID      primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	ContentType     string             `bson:"contentType" json:"contentType"`
	ReportedContent string             `bson:"reportedContent" json:"-"`
	Reason          string             `bson:"reason" json:"reason"`
	Inappropriate   bool               `bson:"inappropriate" json:"inappropriate"`
	Reasoning       string             `bson:"reasoning" json:"reasoning"`
	NeedsReview     bool               `bson:"needsReview" json:"needsReview"`
	CreatedAt       int64              `bson:"createdAt" json:"createdAt"`
}
