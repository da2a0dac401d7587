package document

import "go.mongodb.org/mongo-driver/bson/primitive"

// IDLength is the length of a textual identifier.
const IDLength = 24

// IsValidID reports whether token is a well-formed identifier: 24
// hexadecimal characters, the textual form of a MongoDB ObjectID.
func IsValidID(token string) bool {
	if len(token) != IDLength {
		return false
	}
	return primitive.IsValidObjectID(token)
}

// ParseID validates token and returns its canonical lower-case form, the
// form every store keys documents by.
func ParseID(token string) (string, bool) {
	if len(token) != IDLength {
		return "", false
	}
	oid, err := primitive.ObjectIDFromHex(token)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}

// NewID returns a fresh identifier. IDs generated in one process sort by
// creation order.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
