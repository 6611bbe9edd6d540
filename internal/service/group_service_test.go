package service

import (
	"context"
	"testing"
	"time"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variablesRequest() GroupVariablesRequest {
	return GroupVariablesRequest{
		Weight:          "4",
		PieceCount:      "1",
		Purity:          "10",
		WastageRate:     "0.08",
		Factor:          "1.3",
		LaborCost:       "75",
		StoneCost:       "0",
		SalesCommission: "150",
		ShippingCost:    "0",
	}
}

func TestGroupServiceCreateAndList(t *testing.T) {
	repo := newStubGroupRepo()
	audit := &stubAuditRepo{}
	svc := NewGroupService(repo, audit, time.Hour, zerolog.Nop())

	group, err := svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Broqueles 10k", Method: model.MethodPiece}, "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodPiece, group.Method)
	assert.Contains(t, audit.actions(), model.ActionCreateGroup)

	groups, total, err := svc.ListGroups(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, groups, 1)
}

func TestGroupServiceVariablesSeedDefaults(t *testing.T) {
	repo := newStubGroupRepo()
	svc := NewGroupService(repo, &stubAuditRepo{}, time.Hour, zerolog.Nop())

	group, err := svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Cadenas", Method: model.MethodGram}, "")
	require.NoError(t, err)

	vars, err := svc.GetVariables(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", vars.PieceCount)
	assert.Equal(t, "1", vars.Factor)
	assert.Equal(t, "0", vars.Weight)
}

func TestGroupServiceSubmitVariablesDebounced(t *testing.T) {
	repo := newStubGroupRepo()
	audit := &stubAuditRepo{}
	// An hour-long window: nothing may land until the explicit flush.
	svc := NewGroupService(repo, audit, time.Hour, zerolog.Nop())

	group, err := svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Anillos", Method: model.MethodGram}, "")
	require.NoError(t, err)
	groupID, err := uuid.Parse(group.ID)
	require.NoError(t, err)

	first := variablesRequest()
	first.Weight = "3"
	_, err = svc.SubmitVariables(context.Background(), group.ID, first, "")
	require.NoError(t, err)

	second := variablesRequest()
	second.Weight = "4.5"
	echoed, err := svc.SubmitVariables(context.Background(), group.ID, second, "")
	require.NoError(t, err)
	assert.Equal(t, "4.5", echoed.Weight)

	// Seeded defaults are still the stored state before the flush.
	stored, err := repo.GetVariables(context.Background(), groupID)
	require.NoError(t, err)
	assert.True(t, stored.Weight.IsZero())

	svc.FlushPending()

	stored, err = repo.GetVariables(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, "4.5", stored.Weight.String(), "latest submission wins")
	assert.Contains(t, audit.actions(), model.ActionUpsertGroupVariables)
}

func TestGroupServiceSubmitVariablesRejectsBadRecord(t *testing.T) {
	repo := newStubGroupRepo()
	svc := NewGroupService(repo, &stubAuditRepo{}, time.Hour, zerolog.Nop())

	group, err := svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Pulseras", Method: model.MethodGram}, "")
	require.NoError(t, err)

	bad := variablesRequest()
	bad.Purity = "30" // above the karat scale
	_, err = svc.SubmitVariables(context.Background(), group.ID, bad, "")
	assert.Error(t, err)

	unparseable := variablesRequest()
	unparseable.LaborCost = "abc"
	_, err = svc.SubmitVariables(context.Background(), group.ID, unparseable, "")
	assert.ErrorContains(t, err, "labor_cost")
}

func TestGroupServiceSubmitVariablesUnknownGroup(t *testing.T) {
	svc := NewGroupService(newStubGroupRepo(), &stubAuditRepo{}, time.Hour, zerolog.Nop())

	_, err := svc.SubmitVariables(context.Background(), uuid.NewString(), variablesRequest(), "")
	assert.ErrorContains(t, err, "not found")
}
