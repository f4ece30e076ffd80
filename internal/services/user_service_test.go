package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestValidateProfileInput(t *testing.T) {
	t.Run("Empty input is valid", func(t *testing.T) {
		assert.NoError(t, validateProfileInput(ProfileInput{}))
	})

	t.Run("Valid preferences pass", func(t *testing.T) {
		input := ProfileInput{
			Age:      intp(30),
			Bedtime:  strp("22:30"),
			WakeTime: strp("6:45"),
			FullName: strp("Ada Lovelace"),
		}
		assert.NoError(t, validateProfileInput(input))
	})

	t.Run("Age bounds", func(t *testing.T) {
		assert.Error(t, validateProfileInput(ProfileInput{Age: intp(12)}))
		assert.Error(t, validateProfileInput(ProfileInput{Age: intp(121)}))
		assert.NoError(t, validateProfileInput(ProfileInput{Age: intp(13)}))
		assert.NoError(t, validateProfileInput(ProfileInput{Age: intp(120)}))
	})

	t.Run("Times must be HH:mm", func(t *testing.T) {
		assert.Error(t, validateProfileInput(ProfileInput{Bedtime: strp("25:00")}))
		assert.Error(t, validateProfileInput(ProfileInput{Bedtime: strp("10:60")}))
		assert.Error(t, validateProfileInput(ProfileInput{WakeTime: strp("soonish")}))
		assert.NoError(t, validateProfileInput(ProfileInput{Bedtime: strp("00:00")}))
		assert.NoError(t, validateProfileInput(ProfileInput{WakeTime: strp("23:59")}))
	})

	t.Run("Full name length", func(t *testing.T) {
		assert.Error(t, validateProfileInput(ProfileInput{FullName: strp("A")}))
		assert.NoError(t, validateProfileInput(ProfileInput{FullName: strp("Al")}))
	})

	t.Run("Validation errors are user facing", func(t *testing.T) {
		err := validateProfileInput(ProfileInput{Age: intp(5)})
		assert.IsType(t, ValidationError(""), err)
	})
}
