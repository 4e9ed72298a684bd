package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

func TestRegisterContestantRequest_Age(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantAge string
	}{
		{name: "number", body: `{"age":16}`, wantAge: "16"},
		{name: "float", body: `{"age":16.5}`, wantAge: "16.5"},
		{name: "numeric string", body: `{"age":"16"}`, wantAge: "16"},
		{name: "missing", body: `{}`, wantAge: ""},
		{name: "null", body: `{"age":null}`, wantAge: ""},
		{name: "word", body: `{"age":"sixteen"}`, wantAge: "sixteen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RegisterContestantRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			in := req.ToInput()
			assert.Equal(t, tt.wantAge, in.Age)
			assert.Empty(t, in.TypeErrors)
		})
	}
}

func TestRegisterContestantRequest_WrongTypes(t *testing.T) {
	body := `{"firstName":42,"lastName":"Lee","age":true,"kata":"yes","kumite":false,"email":"ana@example.com"}`

	var req RegisterContestantRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in := req.ToInput()
	assert.Equal(t, map[string]string{
		"firstName": "must be a string",
		"age":       "must be a whole number",
		"kata":      "must be true or false",
	}, in.TypeErrors)
	assert.Equal(t, "Lee", in.LastName)
	assert.Equal(t, "ana@example.com", in.Email)
	assert.False(t, in.Kata)
}

func TestRegisterContestantRequest_NotAnObject(t *testing.T) {
	for _, body := range []string{`null`, `[]`, `"ana"`} {
		var req RegisterContestantRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestListContestantsQuery_ToFilter(t *testing.T) {
	minAge := 10
	paid := true
	q := &ListContestantsQuery{
		CompetitionID: "c1",
		BeltColors:    []string{"Wit", "Geel"},
		MinAge:        &minAge,
		Participation: "kata",
		Paid:          &paid,
	}

	f := q.ToFilter()
	assert.Equal(t, "c1", f.CompetitionID)
	assert.Equal(t, []domain.BeltColor{domain.BeltWhite, domain.BeltYellow}, f.BeltColors)
	assert.Equal(t, 10, *f.MinAge)
	assert.Nil(t, f.MaxAge)
	assert.Equal(t, domain.ParticipationKata, f.Participation)
	assert.True(t, *f.Paid)
	assert.NoError(t, f.Validate())
}
