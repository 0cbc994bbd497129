package handlers

import (
	"testing"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationStep_FullDialog(t *testing.T) {
	steps := []struct {
		input  string
		next   state.UserState
		prompt string
	}{
		{" ann@example.com ", state.StateRegisterPassword, promptRegisterPassword},
		{"secret1", state.StateRegisterConfirm, promptRegisterConfirm},
		{"secret1", state.StateRegisterFullName, promptRegisterFullName},
		{"  Ann   Lee ", state.StateRegisterCCCD, promptRegisterCCCD},
		{"012345678901", state.StateRegisterPhone, promptRegisterPhone},
		{"0900 123 456", state.StateNone, ""},
	}

	current := state.StateRegisterEmail
	var reg model.Registration
	for _, step := range steps {
		next, updated, prompt, err := registrationStep(current, reg, step.input)
		require.NoError(t, err, "input %q", step.input)
		assert.Equal(t, step.next, next)
		assert.Equal(t, step.prompt, prompt)
		current, reg = next, updated
	}

	assert.Equal(t, model.Registration{
		Email:    "ann@example.com",
		Password: "secret1",
		FullName: "Ann Lee",
		CCCD:     "012345678901",
		Phone:    "0900 123 456",
	}, reg)
}

func TestRegistrationStep_InvalidInputKeepsStep(t *testing.T) {
	tests := []struct {
		current state.UserState
		input   string
	}{
		{state.StateRegisterEmail, "not-an-email"},
		{state.StateRegisterPassword, "12345"},
		{state.StateRegisterFullName, "   "},
		{state.StateRegisterCCCD, "01234567890"},
		{state.StateRegisterCCCD, "01234567890a"},
		{state.StateRegisterPhone, "090012"},
		{state.StateRegisterPhone, "0900-abc-456"},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"/"+tt.input, func(t *testing.T) {
			reg := model.Registration{Email: "ann@example.com"}
			next, updated, prompt, err := registrationStep(tt.current, reg, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.current, next)
			assert.Equal(t, reg, updated)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestRegistrationStep_PasswordMismatchRestartsPassword(t *testing.T) {
	reg := model.Registration{Email: "ann@example.com", Password: "secret1"}

	next, updated, prompt, err := registrationStep(state.StateRegisterConfirm, reg, "secret2")
	require.Error(t, err)
	assert.Equal(t, state.StateRegisterPassword, next)
	assert.Empty(t, updated.Password)
	assert.Equal(t, promptRegisterPassword, prompt)
}

func TestRegistrationStep_UnknownState(t *testing.T) {
	_, _, _, err := registrationStep(state.StateLoginEmail, model.Registration{}, "x")
	assert.Error(t, err)
	assert.False(t, isRegistrationState(state.StateLoginEmail))
	assert.True(t, isRegistrationState(state.StateRegisterCCCD))
}
