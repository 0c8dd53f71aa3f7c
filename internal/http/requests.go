package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// flexString accepts a JSON string or number and keeps its text form.
// Budgets arrive both ways depending on the client; validation happens
// downstream on the text.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(data)
	return nil
}

// bucketRequest is the body for POST, PUT and DELETE /bucket. PUT uses
// oldName to address the bucket; name and budget are the new values,
// empty meaning unchanged.
type bucketRequest struct {
	Name    string     `json:"name"`
	OldName string     `json:"oldName"`
	Budget  flexString `json:"budget"`
}

// assignRequest is the body for POST /assign. A null (or absent)
// bucketName unassigns the expense.
type assignRequest struct {
	ExpenseHash string  `json:"expenseHash"`
	BucketName  *string `json:"bucketName"`
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
