package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type User struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id"`
	Username  string               `json:"username" bson:"username"`
	Email     string               `json:"email" bson:"email"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	Following []primitive.ObjectID `json:"following" bson:"following"`
}

// Normalize replaces a nil following set with an empty one so it is stored
// as an array and rendered as [] rather than null.
func (u *User) Normalize() {
	if u.Following == nil {
		u.Following = []primitive.ObjectID{}
	}
}

// Follows reports whether id is in the user's following set.
func (u *User) Follows(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Details string `json:"details"`
}

// Envelope is the body of every API response. Success envelopes always
// carry data (possibly null), error envelopes carry error instead.
type Envelope struct {
	Status  string
	Message string
	Data    any
	Error   *ErrorDetail
	Code    int
}

func Success(message string, data any, code int) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data, Code: code}
}

func Failure(message string, code int, details string) Envelope {
	return Envelope{
		Status:  StatusError,
		Message: message,
		Error:   &ErrorDetail{Code: code, Details: details},
		Code:    code,
	}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	type success struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    any    `json:"data"`
		Code    int    `json:"code,omitempty"`
	}
	type failure struct {
		Status  string       `json:"status"`
		Message string       `json:"message"`
		Error   *ErrorDetail `json:"error"`
		Code    int          `json:"code,omitempty"`
	}
	if e.Status == StatusSuccess {
		return json.Marshal(success{Status: e.Status, Message: e.Message, Data: e.Data, Code: e.Code})
	}
	return json.Marshal(failure{Status: e.Status, Message: e.Message, Error: e.Error, Code: e.Code})
}
