// internal/workflow/engine_test.go
package workflow

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/common/logger"
	"loan-workflow/internal/common/validation"
	"loan-workflow/internal/models"
	"loan-workflow/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeRemote struct {
	submitErr    error
	rejectErr    error
	terminateErr error
	calls        []string
}

func (f *fakeRemote) SubmitProcess(ctx context.Context, piid string) error {
	f.calls = append(f.calls, "submit:"+piid)
	return f.submitErr
}

func (f *fakeRemote) Reject(ctx context.Context, piid string) error {
	f.calls = append(f.calls, "reject:"+piid)
	return f.rejectErr
}

func (f *fakeRemote) Terminate(ctx context.Context, piid string) error {
	f.calls = append(f.calls, "terminate:"+piid)
	return f.terminateErr
}

type recordingObserver struct {
	committed []string
	removed   []string
}

func (r *recordingObserver) OnCommitted(ctx context.Context, app *models.Application) {
	r.committed = append(r.committed, app.ID+":"+string(app.Status))
}

func (r *recordingObserver) OnRemoved(ctx context.Context, appID string) {
	r.removed = append(r.removed, appID)
}

func newTestEngine(t *testing.T, st store.Store, rm *fakeRemote, observers ...CommitObserver) *Engine {
	t.Helper()
	validator, err := validation.NewValidator()
	require.NoError(t, err)
	return NewEngine(st, rm, NewMemoryBusyTracker(), validator, logger.NewTestLogger(t), nil, observers...)
}

func seedApp(t *testing.T, st store.Store, id string, status models.ApplicationStatus, mutate func(*models.Application)) *models.Application {
	t.Helper()
	app := &models.Application{
		ID:           id,
		PIID:         "piid-" + id,
		Status:       status,
		CustomerName: "Budi Santoso",
		NIK:          "3174050607890001",
		LoanAmount:   50000000,
		Tenor:        12,
		SalesID:      "sales-1",
	}
	if mutate != nil {
		mutate(app)
	}
	require.NoError(t, st.Create(context.Background(), app))
	return app
}

func validDisbursement() *models.DisbursementDetails {
	return &models.DisbursementDetails{
		BankName:      "BNI",
		AccountNumber: "123",
		Amount:        5000000,
		Date:          "2024-01-01",
	}
}

func validResubmission() *models.ResubmissionData {
	return &models.ResubmissionData{
		CustomerName: "Budi Santoso",
		NIK:          "3174050607890001",
		LoanAmount:   45000000,
		Tenor:        18,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestEngine_Transition_Advance(t *testing.T) {
	t.Run("ICR advances Submitted to Internal Checking", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{}
		engine := newTestEngine(t, st, rm)

		seedApp(t, st, "APP-1", models.StatusSubmitted, func(a *models.Application) {
			a.EDDNotes = "earlier supervisor note"
		})
		before, err := st.Get(context.Background(), "APP-1")
		require.NoError(t, err)

		time.Sleep(time.Millisecond)
		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-1",
			Role:   models.RoleICR,
			Target: models.StatusInternalChecking,
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusInternalChecking, updated.Status)
		assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
		assert.Equal(t, "earlier supervisor note", updated.EDDNotes)
		assert.Equal(t, []string{"submit:piid-APP-1"}, rm.calls)
	})

	t.Run("supervisor advances to analyst review without remote call", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{}
		engine := newTestEngine(t, st, rm)

		seedApp(t, st, "APP-2", models.StatusSupervisorReview, nil)

		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-2",
			Role:   models.RoleSupervisor,
			Target: models.StatusAnalystReview,
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusAnalystReview, updated.Status)
		assert.Empty(t, rm.calls)
	})
}

func TestEngine_Transition_Guards(t *testing.T) {
	tests := []struct {
		name         string
		seedStatus   models.ApplicationStatus
		seedMutate   func(*models.Application)
		appID        string
		req          TransitionRequest
		expectedCode errors.ErrorCode
	}{
		{
			name:       "unknown application",
			seedStatus: models.StatusSubmitted,
			appID:      "APP-G1",
			req: TransitionRequest{
				AppID:  "no-such-app",
				Role:   models.RoleICR,
				Target: models.StatusInternalChecking,
			},
			expectedCode: errors.ErrCodeNotFound,
		},
		{
			name:       "sales cannot act on internal checking",
			seedStatus: models.StatusInternalChecking,
			appID:      "APP-G2",
			req: TransitionRequest{
				AppID:  "APP-G2",
				Role:   models.RoleSales,
				Target: models.StatusExternalChecking,
			},
			expectedCode: errors.ErrCodeForbidden,
		},
		{
			name:       "ICR cannot skip straight to approval",
			seedStatus: models.StatusSubmitted,
			appID:      "APP-G3",
			req: TransitionRequest{
				AppID:  "APP-G3",
				Role:   models.RoleICR,
				Target: models.StatusApproval,
			},
			expectedCode: errors.ErrCodeInvalidTransition,
		},
		{
			name:       "remote-mirrored advance without piid",
			seedStatus: models.StatusSubmitted,
			seedMutate: func(a *models.Application) { a.PIID = "" },
			appID:      "APP-G4",
			req: TransitionRequest{
				AppID:  "APP-G4",
				Role:   models.RoleICR,
				Target: models.StatusInternalChecking,
			},
			expectedCode: errors.ErrCodeMissingData,
		},
		{
			name:       "terminal status accepts nothing",
			seedStatus: models.StatusDisbursed,
			appID:      "APP-G5",
			req: TransitionRequest{
				AppID:  "APP-G5",
				Role:   models.RoleOperation,
				Target: models.StatusSubmitted,
			},
			expectedCode: errors.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			rm := &fakeRemote{}
			engine := newTestEngine(t, st, rm)
			seedApp(t, st, tt.appID, tt.seedStatus, tt.seedMutate)

			before, err := st.Get(context.Background(), tt.appID)
			require.NoError(t, err)

			updated, err := engine.Transition(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, updated)
			assert.Equal(t, tt.expectedCode, errors.CodeOf(err))

			// Nothing committed, no remote traffic on guard failures.
			after, err := st.Get(context.Background(), tt.appID)
			require.NoError(t, err)
			assert.Equal(t, before.Status, after.Status)
			assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
			if tt.expectedCode != errors.ErrCodeRemoteRejected {
				assert.Empty(t, rm.calls)
			}
		})
	}
}

// ==========================
// Checklist Gate Tests
// ==========================

func TestEngine_ChecklistGate(t *testing.T) {
	st := store.NewMemoryStore()
	rm := &fakeRemote{}
	engine := newTestEngine(t, st, rm)

	seedApp(t, st, "APP-2", models.StatusApproval, func(a *models.Application) {
		a.ApproverChecklist = &models.ApproverChecklist{
			CreditScoreChecked:  true,
			DocumentsVerified:   true,
			CollateralValuation: false,
			ComplianceCheck:     true,
		}
	})

	advance := TransitionRequest{
		AppID:  "APP-2",
		Role:   models.RoleApprover,
		Target: models.StatusDisbursementReady,
	}

	// One flag short: advance refused.
	_, err := engine.Transition(context.Background(), advance)
	require.Error(t, err)
	assert.True(t, errors.IsMissingData(err))

	// Complete the checklist, then advance succeeds.
	_, err = engine.SetChecklistFlag(context.Background(), "APP-2", models.RoleApprover, models.ChecklistCollateralValuation, true)
	require.NoError(t, err)

	updated, err := engine.Transition(context.Background(), advance)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisbursementReady, updated.Status)
}

func TestEngine_ChecklistGate_FlagFlippedBack(t *testing.T) {
	st := store.NewMemoryStore()
	rm := &fakeRemote{}
	engine := newTestEngine(t, st, rm)

	seedApp(t, st, "APP-2B", models.StatusApproval, func(a *models.Application) {
		a.ApproverChecklist = &models.ApproverChecklist{
			CreditScoreChecked:  true,
			DocumentsVerified:   true,
			CollateralValuation: true,
			ComplianceCheck:     true,
		}
	})

	_, err := engine.SetChecklistFlag(context.Background(), "APP-2B", models.RoleApprover, models.ChecklistDocumentsVerified, false)
	require.NoError(t, err)

	_, err = engine.Transition(context.Background(), TransitionRequest{
		AppID:  "APP-2B",
		Role:   models.RoleApprover,
		Target: models.StatusDisbursementReady,
	})
	require.Error(t, err)
	assert.True(t, errors.IsMissingData(err))
}

func TestEngine_SetChecklistFlag_Guards(t *testing.T) {
	tests := []struct {
		name         string
		status       models.ApplicationStatus
		role         models.Role
		key          models.ChecklistKey
		expectedCode errors.ErrorCode
	}{
		{
			name:         "analyst cannot touch the checklist",
			status:       models.StatusApproval,
			role:         models.RoleAnalyst,
			key:          models.ChecklistCreditScore,
			expectedCode: errors.ErrCodeForbidden,
		},
		{
			name:         "approver cannot touch it outside approval",
			status:       models.StatusAnalystReview,
			role:         models.RoleApprover,
			key:          models.ChecklistCreditScore,
			expectedCode: errors.ErrCodeForbidden,
		},
		{
			name:         "unknown key rejected",
			status:       models.StatusApproval,
			role:         models.RoleApprover,
			key:          models.ChecklistKey("somethingElse"),
			expectedCode: errors.ErrCodeMissingData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			engine := newTestEngine(t, st, &fakeRemote{})
			seedApp(t, st, "APP-C", tt.status, nil)

			_, err := engine.SetChecklistFlag(context.Background(), "APP-C", tt.role, tt.key, true)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
		})
	}
}

// ==========================
// EDD Branch Tests
// ==========================

func TestEngine_EDDRequired(t *testing.T) {
	t.Run("empty or whitespace notes refused", func(t *testing.T) {
		for _, notes := range []string{"", "   ", "\t\n"} {
			st := store.NewMemoryStore()
			engine := newTestEngine(t, st, &fakeRemote{})
			seedApp(t, st, "APP-E", models.StatusSupervisorReview, nil)

			_, err := engine.Transition(context.Background(), TransitionRequest{
				AppID:    "APP-E",
				Role:     models.RoleSupervisor,
				Target:   models.StatusEDDRequired,
				EDDNotes: notes,
			})
			require.Error(t, err)
			assert.True(t, errors.IsMissingData(err))
		}
	})

	t.Run("notes are trimmed and stored", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-E2", models.StatusSupervisorReview, nil)

		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:    "APP-E2",
			Role:     models.RoleSupervisor,
			Target:   models.StatusEDDRequired,
			EDDNotes: "  verify income documents  ",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusEDDRequired, updated.Status)
		assert.Equal(t, "verify income documents", updated.EDDNotes)
	})

	t.Run("resubmission restarts at Submitted and clears notes", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-E3", models.StatusEDDRequired, func(a *models.Application) {
			a.EDDNotes = "verify income documents"
		})

		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:        "APP-E3",
			Role:         models.RoleSales,
			Target:       models.StatusSubmitted,
			Resubmission: validResubmission(),
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSubmitted, updated.Status)
		assert.Empty(t, updated.EDDNotes)
		assert.Equal(t, int64(45000000), updated.LoanAmount)
		assert.Equal(t, 18, updated.Tenor)
	})

	t.Run("resubmission without payload refused", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-E4", models.StatusEDDRequired, nil)

		_, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-E4",
			Role:   models.RoleSales,
			Target: models.StatusSubmitted,
		})
		require.Error(t, err)
		assert.True(t, errors.IsMissingData(err))
	})
}

// ==========================
// Disbursement Tests
// ==========================

func TestEngine_Disbursement(t *testing.T) {
	t.Run("valid details stored verbatim", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-3", models.StatusDisbursementReady, nil)

		details := validDisbursement()
		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:               "APP-3",
			Role:                models.RoleOperation,
			Target:              models.StatusDisbursed,
			DisbursementDetails: details,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusDisbursed, updated.Status)
		assert.Equal(t, details, updated.DisbursementDetails)
	})

	t.Run("optional notes carried through", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-3B", models.StatusDisbursementReady, nil)

		details := validDisbursement()
		details.Notes = "disbursed via payroll account"
		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:               "APP-3B",
			Role:                models.RoleOperation,
			Target:              models.StatusDisbursed,
			DisbursementDetails: details,
		})
		require.NoError(t, err)
		assert.Equal(t, "disbursed via payroll account", updated.DisbursementDetails.Notes)
	})

	t.Run("incomplete details refused", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*models.DisbursementDetails)
		}{
			{"missing bank name", func(d *models.DisbursementDetails) { d.BankName = "" }},
			{"missing account number", func(d *models.DisbursementDetails) { d.AccountNumber = "" }},
			{"zero amount", func(d *models.DisbursementDetails) { d.Amount = 0 }},
			{"missing date", func(d *models.DisbursementDetails) { d.Date = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				st := store.NewMemoryStore()
				engine := newTestEngine(t, st, &fakeRemote{})
				seedApp(t, st, "APP-3C", models.StatusDisbursementReady, nil)

				details := validDisbursement()
				tt.mutate(details)

				_, err := engine.Transition(context.Background(), TransitionRequest{
					AppID:               "APP-3C",
					Role:                models.RoleOperation,
					Target:              models.StatusDisbursed,
					DisbursementDetails: details,
				})
				require.Error(t, err)
				assert.True(t, errors.IsMissingData(err))

				after, err := st.Get(context.Background(), "APP-3C")
				require.NoError(t, err)
				assert.Equal(t, models.StatusDisbursementReady, after.Status)
				assert.Nil(t, after.DisbursementDetails)
			})
		}
	})
}

// ==========================
// Remote Mirroring Tests
// ==========================

func TestEngine_RemoteRejected(t *testing.T) {
	t.Run("failed reject leaves application untouched", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{rejectErr: errors.NewRemoteRejectedError("process instance not active")}
		engine := newTestEngine(t, st, rm)
		seedApp(t, st, "APP-R", models.StatusInternalChecking, nil)

		_, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-R",
			Role:   models.RoleICR,
			Target: models.StatusRejected,
		})
		require.Error(t, err)
		assert.True(t, errors.IsRemoteRejected(err))
		assert.Contains(t, err.Error(), "process instance not active")

		after, getErr := st.Get(context.Background(), "APP-R")
		require.NoError(t, getErr)
		assert.Equal(t, models.StatusInternalChecking, after.Status)

		// Retrying unchanged succeeds once the remote recovers.
		rm.rejectErr = nil
		updated, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-R",
			Role:   models.RoleICR,
			Target: models.StatusRejected,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, updated.Status)
	})

	t.Run("failed submit blocks the advance", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{submitErr: errors.NewRemoteRejectedError("")}
		engine := newTestEngine(t, st, rm)
		seedApp(t, st, "APP-R2", models.StatusExternalChecking, nil)

		_, err := engine.Transition(context.Background(), TransitionRequest{
			AppID:  "APP-R2",
			Role:   models.RoleICR,
			Target: models.StatusSupervisorReview,
		})
		require.Error(t, err)
		assert.True(t, errors.IsRemoteRejected(err))

		after, getErr := st.Get(context.Background(), "APP-R2")
		require.NoError(t, getErr)
		assert.Equal(t, models.StatusExternalChecking, after.Status)
	})
}

// ==========================
// Busy Flag Tests
// ==========================

func TestEngine_BusyFlag(t *testing.T) {
	st := store.NewMemoryStore()
	busy := NewMemoryBusyTracker()
	validator, err := validation.NewValidator()
	require.NoError(t, err)
	engine := NewEngine(st, &fakeRemote{}, busy, validator, logger.NewTestLogger(t), nil)

	seedApp(t, st, "APP-B", models.StatusSubmitted, nil)

	// Simulate an in-flight transition holding the lease.
	acquired, err := busy.Acquire(context.Background(), "APP-B")
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = engine.Transition(context.Background(), TransitionRequest{
		AppID:  "APP-B",
		Role:   models.RoleICR,
		Target: models.StatusInternalChecking,
	})
	require.Error(t, err)
	assert.True(t, errors.IsApplicationBusy(err))
	assert.True(t, errors.IsRetryable(err))

	// Released lease lets the same request through.
	busy.Release(context.Background(), "APP-B")
	updated, err := engine.Transition(context.Background(), TransitionRequest{
		AppID:  "APP-B",
		Role:   models.RoleICR,
		Target: models.StatusInternalChecking,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInternalChecking, updated.Status)
}

// ==========================
// Recalculate Tests
// ==========================

func TestEngine_Recalculate(t *testing.T) {
	t.Run("analyst adjusts amount and tenor in review", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-RC", models.StatusAnalystReview, nil)

		updated, err := engine.Recalculate(context.Background(), "APP-RC", models.RoleAnalyst, 40000000, 24)
		require.NoError(t, err)
		assert.Equal(t, int64(40000000), updated.LoanAmount)
		assert.Equal(t, 24, updated.Tenor)
		assert.Equal(t, models.StatusAnalystReview, updated.Status)
	})

	t.Run("guards", func(t *testing.T) {
		tests := []struct {
			name         string
			status       models.ApplicationStatus
			role         models.Role
			amount       int64
			tenor        int
			expectedCode errors.ErrorCode
		}{
			{"wrong role", models.StatusAnalystReview, models.RoleSupervisor, 1000, 12, errors.ErrCodeForbidden},
			{"wrong status", models.StatusApproval, models.RoleAnalyst, 1000, 12, errors.ErrCodeForbidden},
			{"non-positive amount", models.StatusAnalystReview, models.RoleAnalyst, 0, 12, errors.ErrCodeMissingData},
			{"non-positive tenor", models.StatusAnalystReview, models.RoleAnalyst, 1000, 0, errors.ErrCodeMissingData},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				st := store.NewMemoryStore()
				engine := newTestEngine(t, st, &fakeRemote{})
				seedApp(t, st, "APP-RC2", tt.status, nil)

				_, err := engine.Recalculate(context.Background(), "APP-RC2", tt.role, tt.amount, tt.tenor)
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
			})
		}
	})
}

// ==========================
// Delete Tests
// ==========================

func TestEngine_Delete(t *testing.T) {
	t.Run("sales deletes a submitted application", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{}
		obs := &recordingObserver{}
		engine := newTestEngine(t, st, rm, obs)
		seedApp(t, st, "APP-D", models.StatusSubmitted, nil)

		err := engine.Delete(context.Background(), "APP-D", models.RoleSales)
		require.NoError(t, err)
		assert.Equal(t, []string{"terminate:piid-APP-D"}, rm.calls)
		assert.Equal(t, []string{"APP-D"}, obs.removed)

		_, err = st.Get(context.Background(), "APP-D")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("failed terminate keeps the record", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{terminateErr: errors.NewRemoteRejectedError("")}
		engine := newTestEngine(t, st, rm)
		seedApp(t, st, "APP-D2", models.StatusSubmitted, nil)

		err := engine.Delete(context.Background(), "APP-D2", models.RoleSales)
		require.Error(t, err)
		assert.True(t, errors.IsRemoteRejected(err))

		_, err = st.Get(context.Background(), "APP-D2")
		assert.NoError(t, err)
	})

	t.Run("delete outside Submitted or by another role refused", func(t *testing.T) {
		st := store.NewMemoryStore()
		engine := newTestEngine(t, st, &fakeRemote{})
		seedApp(t, st, "APP-D3", models.StatusInternalChecking, nil)
		seedApp(t, st, "APP-D4", models.StatusSubmitted, nil)

		err := engine.Delete(context.Background(), "APP-D3", models.RoleSales)
		assert.True(t, errors.IsForbidden(err))

		err = engine.Delete(context.Background(), "APP-D4", models.RoleICR)
		assert.True(t, errors.IsForbidden(err))
	})

	t.Run("delete without piid refused before network", func(t *testing.T) {
		st := store.NewMemoryStore()
		rm := &fakeRemote{}
		engine := newTestEngine(t, st, rm)
		seedApp(t, st, "APP-D5", models.StatusSubmitted, func(a *models.Application) { a.PIID = "" })

		err := engine.Delete(context.Background(), "APP-D5", models.RoleSales)
		assert.True(t, errors.IsMissingData(err))
		assert.Empty(t, rm.calls)
	})
}

// ==========================
// Observer Tests
// ==========================

func TestEngine_Observers(t *testing.T) {
	st := store.NewMemoryStore()
	obs := &recordingObserver{}
	engine := newTestEngine(t, st, &fakeRemote{}, obs)
	seedApp(t, st, "APP-O", models.StatusSubmitted, nil)

	_, err := engine.Transition(context.Background(), TransitionRequest{
		AppID:  "APP-O",
		Role:   models.RoleICR,
		Target: models.StatusInternalChecking,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"APP-O:Internal Checking"}, obs.committed)

	// Guard failures never reach the observers.
	_, err = engine.Transition(context.Background(), TransitionRequest{
		AppID:  "APP-O",
		Role:   models.RoleSales,
		Target: models.StatusSubmitted,
	})
	require.Error(t, err)
	assert.Len(t, obs.committed, 1)
}

func TestEngine_Transition_StoreErrorPropagates(t *testing.T) {
	st := store.NewMemoryStore()
	engine := newTestEngine(t, st, &fakeRemote{})

	_, err := engine.Transition(context.Background(), TransitionRequest{
		AppID:  "ghost",
		Role:   models.RoleICR,
		Target: models.StatusInternalChecking,
	})
	require.Error(t, err)

	var stdErr *errors.StandardError
	assert.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotFound, stdErr.Code)
}
