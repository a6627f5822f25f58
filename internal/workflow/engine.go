// internal/workflow/engine.go
package workflow

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/common/logger"
	"loan-workflow/internal/common/observability"
	"loan-workflow/internal/common/validation"
	"loan-workflow/internal/models"
	"loan-workflow/internal/remote"
	"loan-workflow/internal/store"
)

// TransitionRequest is the caller's intent: move one application to a
// target status as a given role, with whatever side-channel payload the
// transition needs.
type TransitionRequest struct {
	AppID  string
	Role   models.Role
	Target models.ApplicationStatus

	EDDNotes            string
	DisbursementDetails *models.DisbursementDetails
	Resubmission        *models.ResubmissionData
}

// CommitObserver is notified after a successful commit. Observers are
// best-effort; they log their own failures and never fail the transition.
type CommitObserver interface {
	OnCommitted(ctx context.Context, app *models.Application)
}

// RemoveObserver is notified after an application is deleted.
type RemoveObserver interface {
	OnRemoved(ctx context.Context, appID string)
}

// Engine is the application status workflow: the transition table, its
// guards, remote mirroring, and the commit.
type Engine struct {
	store     store.Store
	remote    remote.LoanService
	busy      BusyTracker
	validator *validation.Validator
	observers []CommitObserver
	metrics   *observability.Metrics
	logger    logger.Logger
}

// NewEngine wires the workflow engine. metrics may be nil; observers may
// be empty.
func NewEngine(
	st store.Store,
	loanSvc remote.LoanService,
	busy BusyTracker,
	validator *validation.Validator,
	log logger.Logger,
	metrics *observability.Metrics,
	observers ...CommitObserver,
) *Engine {
	return &Engine{
		store:     st,
		remote:    loanSvc,
		busy:      busy,
		validator: validator,
		observers: observers,
		metrics:   metrics,
		logger:    log,
	}
}

// Transition runs the guard pipeline and commits the status change.
// Guards run in a fixed order: NotFound, Forbidden, InvalidTransition,
// MissingData, then the remote mirror. Nothing is committed locally until
// every guard and the remote call have passed.
func (e *Engine) Transition(ctx context.Context, req TransitionRequest) (*models.Application, error) {
	start := time.Now()

	acquired, err := e.busy.Acquire(ctx, req.AppID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		e.countBusyConflict(ctx, req)
		return nil, errors.NewApplicationBusyError(req.AppID)
	}
	defer e.busy.Release(ctx, req.AppID)

	app, err := e.store.Get(ctx, req.AppID)
	if err != nil {
		return nil, err
	}

	if !roleMayAct(app.Status, req.Role) {
		e.countTransition(ctx, app.Status, req, "forbidden")
		return nil, errors.NewForbiddenError(string(req.Role), string(app.Status))
	}

	rule, ok := findRule(app.Status, req.Target, req.Role)
	if !ok {
		e.countTransition(ctx, app.Status, req, "invalid_transition")
		return nil, errors.NewInvalidTransitionError(string(app.Status), string(req.Target))
	}

	patch, err := e.buildPatch(rule, req, app)
	if err != nil {
		e.countTransition(ctx, app.Status, req, "missing_data")
		return nil, err
	}

	if rule.Remote != RemoteNone {
		if err := e.mirror(ctx, rule.Remote, app); err != nil {
			e.countTransition(ctx, app.Status, req, "remote_rejected")
			return nil, err
		}
	}

	updated, err := e.store.Commit(ctx, req.AppID, patch)
	if err != nil {
		return nil, err
	}

	e.logger.Info("transition committed", map[string]interface{}{
		"application_id": updated.ID,
		"from":           string(rule.From),
		"to":             string(rule.To),
		"role":           string(req.Role),
	})
	e.countTransition(ctx, rule.From, req, "success")
	e.recordDuration(ctx, start)

	e.notifyCommitted(ctx, updated)
	return updated, nil
}

// buildPatch enforces the rule's payload requirement and assembles the
// commit unit. Every failure here is MissingData.
func (e *Engine) buildPatch(rule Rule, req TransitionRequest, app *models.Application) (models.Patch, error) {
	patch := models.Patch{Status: models.StatusPtr(rule.To)}

	switch rule.Requires {
	case RequireEDDNotes:
		notes := strings.TrimSpace(req.EDDNotes)
		if notes == "" {
			return models.Patch{}, errors.NewMissingDataError("eddNotes must not be empty")
		}
		patch.EDDNotes = models.StringPtr(notes)

	case RequireChecklistComplete:
		if !app.ApproverChecklist.AllChecked() {
			return models.Patch{}, errors.NewMissingDataError("all four approver checklist flags must be true")
		}

	case RequireDisbursementDetails:
		if req.DisbursementDetails == nil {
			return models.Patch{}, errors.NewMissingDataError("disbursementDetails is required")
		}
		violations, err := e.validator.ValidateDisbursement(req.DisbursementDetails)
		if err != nil {
			return models.Patch{}, err
		}
		if len(violations) > 0 {
			return models.Patch{}, errors.NewMissingDataError(validation.FormatViolations(violations))
		}
		patch.DisbursementDetails = req.DisbursementDetails

	case RequireResubmission:
		if req.Resubmission == nil {
			return models.Patch{}, errors.NewMissingDataError("resubmission payload is required")
		}
		violations, err := e.validator.ValidateResubmission(req.Resubmission)
		if err != nil {
			return models.Patch{}, err
		}
		if len(violations) > 0 {
			return models.Patch{}, errors.NewMissingDataError(validation.FormatViolations(violations))
		}
		patch.Resubmission = req.Resubmission
	}

	if rule.ClearEDDNotes {
		patch.ClearEDDNotes = true
	}
	return patch, nil
}

// mirror issues the remote call a rule demands. A missing PIID fails
// before any network I/O.
func (e *Engine) mirror(ctx context.Context, action RemoteAction, app *models.Application) error {
	if app.PIID == "" {
		return errors.NewMissingDataError("application has no process instance id (piid)")
	}

	start := time.Now()
	var err error
	var operation string
	switch action {
	case RemoteSubmit:
		operation = "submit-process"
		err = e.remote.SubmitProcess(ctx, app.PIID)
	case RemoteReject:
		operation = "reject"
		err = e.remote.Reject(ctx, app.PIID)
	case RemoteTerminate:
		operation = "terminate"
		err = e.remote.Terminate(ctx, app.PIID)
	}
	e.recordRemoteCall(ctx, operation, start, err)
	return err
}

// SetChecklistFlag flips one approver checklist flag without changing
// status. Approver-only, Approval-only.
func (e *Engine) SetChecklistFlag(ctx context.Context, appID string, role models.Role, key models.ChecklistKey, value bool) (*models.Application, error) {
	app, err := e.store.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleApprover || app.Status != models.StatusApproval {
		return nil, errors.NewForbiddenError(string(role), string(app.Status))
	}

	known := false
	for _, k := range models.ChecklistKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.NewMissingDataError("unknown checklist key: " + string(key))
	}

	checklist := models.ApproverChecklist{}
	if app.ApproverChecklist != nil {
		checklist = *app.ApproverChecklist
	}
	checklist.Set(key, value)

	return e.store.Commit(ctx, appID, models.Patch{ApproverChecklist: &checklist})
}

// Recalculate updates loan amount and tenor during analyst review without
// changing status. Analyst-only, Analyst Review-only.
func (e *Engine) Recalculate(ctx context.Context, appID string, role models.Role, loanAmount int64, tenor int) (*models.Application, error) {
	app, err := e.store.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAnalyst || app.Status != models.StatusAnalystReview {
		return nil, errors.NewForbiddenError(string(role), string(app.Status))
	}
	if loanAmount <= 0 || tenor <= 0 {
		return nil, errors.NewMissingDataError("loanAmount and tenor must be positive")
	}

	return e.store.Commit(ctx, appID, models.Patch{
		LoanAmount: models.Int64Ptr(loanAmount),
		Tenor:      models.IntPtr(tenor),
	})
}

// Delete removes an application outright. Sales-only, Submitted-only; the
// remote process instance is terminated first, and the record survives a
// failed terminate untouched.
func (e *Engine) Delete(ctx context.Context, appID string, role models.Role) error {
	acquired, err := e.busy.Acquire(ctx, appID)
	if err != nil {
		return err
	}
	if !acquired {
		return errors.NewApplicationBusyError(appID)
	}
	defer e.busy.Release(ctx, appID)

	app, err := e.store.Get(ctx, appID)
	if err != nil {
		return err
	}
	if role != models.RoleSales || app.Status != models.StatusSubmitted {
		return errors.NewForbiddenError(string(role), string(app.Status))
	}

	if err := e.mirror(ctx, RemoteTerminate, app); err != nil {
		return err
	}

	if err := e.store.Remove(ctx, appID); err != nil {
		return err
	}

	e.logger.Info("application deleted", map[string]interface{}{
		"application_id": appID,
	})
	for _, obs := range e.observers {
		if ro, ok := obs.(RemoveObserver); ok {
			ro.OnRemoved(ctx, appID)
		}
	}
	return nil
}

func (e *Engine) notifyCommitted(ctx context.Context, app *models.Application) {
	for _, obs := range e.observers {
		obs.OnCommitted(ctx, app)
	}
}

func (e *Engine) countTransition(ctx context.Context, from models.ApplicationStatus, req TransitionRequest, outcome string) {
	if e.metrics == nil {
		return
	}
	e.metrics.TransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(req.Target)),
		attribute.String("role", string(req.Role)),
		attribute.String("outcome", outcome),
	))
}

func (e *Engine) countBusyConflict(ctx context.Context, req TransitionRequest) {
	if e.metrics == nil {
		return
	}
	e.metrics.BusyConflictsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", string(req.Role)),
	))
}

func (e *Engine) recordDuration(ctx context.Context, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.TransitionDuration.Record(ctx, time.Since(start).Seconds())
}

func (e *Engine) recordRemoteCall(ctx context.Context, operation string, start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	e.metrics.RemoteCallsTotal.Add(ctx, 1, attrs)
	e.metrics.RemoteCallDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
