// Package services holds the error taxonomy and client packages for the
// external collaborators: the similarity matcher, the image moderation
// classifier, and the email relay.
package services
