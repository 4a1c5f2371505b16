package application

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/notifier"
	"jobboard/internal/storage"
)

type fixture struct {
	store    *storage.Store
	svc      *Service
	employer *auth.Actor
	seeker   *auth.Actor
	job      *model.JobPosting
}

func newFixture(t *testing.T, sender notifier.EmailSender) *fixture {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "apps.db"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	boss := &model.User{Email: "boss@example.com", Username: "boss", Role: model.RoleEmployer, EmployerProfile: &model.EmployerProfile{FullName: "Boss"}}
	if err := store.CreateUser(ctx, boss); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	company := &model.Company{Name: "Acme"}
	if err := store.CreateCompany(ctx, company, boss.ID); err != nil {
		t.Fatalf("CreateCompany error: %v", err)
	}
	seeker := &model.User{Email: "seeker@example.com", Username: "seeker", Role: model.RoleJobSeeker, SeekerProfile: &model.SeekerProfile{FullName: "Sam", ResumeRef: "resumes/v1.pdf"}}
	if err := store.CreateUser(ctx, seeker); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	job := &model.JobPosting{CompanyID: company.ID, PosterID: &boss.ID, Title: "Engineer", Location: "Remote", Description: "Build"}
	if err := store.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob error: %v", err)
	}

	var delivery notifier.Deliverer
	if sender != nil {
		delivery = notifier.NewDispatcher(sender, 0, 0, nil)
	}
	emitter := notifier.NewEmitter(store, delivery, "board@example.com", nil)

	return &fixture{
		store:    store,
		svc:      NewService(store, emitter, nil),
		employer: resolve(t, store, boss.ID),
		seeker:   resolve(t, store, seeker.ID),
		job:      job,
	}
}

func resolve(t *testing.T, store *storage.Store, userID string) *auth.Actor {
	t.Helper()

	actor, err := auth.NewAuthenticator(store).Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	return actor
}

func (f *fixture) notifications(t *testing.T, userID string) []model.Notification {
	t.Helper()

	items, err := f.store.ListNotifications(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("ListNotifications error: %v", err)
	}
	return items
}

func (f *fixture) activeCount(t *testing.T) int64 {
	t.Helper()

	n, err := f.store.CountActiveApplications(context.Background(), f.seeker.UserID, f.job.ID)
	if err != nil {
		t.Fatalf("CountActiveApplications error: %v", err)
	}
	return n
}

func TestSubmitCreatesAppliedApplicationAndNotifiesPoster(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	f := newFixture(t, sender)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "<p>I am <b>keen</b></p>")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if app.Status != model.StatusApplied {
		t.Fatalf("expected applied, got %s", app.Status)
	}
	if app.ResumeSnapshot != "resumes/v1.pdf" {
		t.Fatalf("expected resume snapshot, got %q", app.ResumeSnapshot)
	}
	if app.CoverLetter != "I am keen" {
		t.Fatalf("expected sanitized cover letter, got %q", app.CoverLetter)
	}
	if app.Job == nil || app.Job.Company == nil || app.Applicant == nil {
		t.Fatalf("expected hydrated application")
	}

	items := f.notifications(t, f.employer.UserID)
	if len(items) != 1 || items[0].Event != model.EventNewApplication {
		t.Fatalf("expected 1 new_application notification, got %+v", items)
	}
	if len(sender.sent()) != 1 || sender.sent()[0].To[0] != "boss@example.com" {
		t.Fatalf("expected email to poster, got %+v", sender.sent())
	}

	job, err := f.store.GetJob(ctx, f.job.ID)
	if err != nil {
		t.Fatalf("GetJob error: %v", err)
	}
	if job.ApplicantsCount != 1 {
		t.Fatalf("expected applicants_count 1, got %d", job.ApplicantsCount)
	}
}

func TestSubmitRejectsDuplicateActiveApplication(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.seeker, f.job.ID, ""); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	_, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if !errors.Is(err, apperr.ErrDuplicateActiveApplication) {
		t.Fatalf("expected DuplicateActiveApplication, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || !strings.Contains(appErr.Message, "withdraw") {
		t.Fatalf("expected guidance in message, got %v", err)
	}
	if f.activeCount(t) != 1 {
		t.Fatalf("expected 1 active application")
	}
}

func TestReapplyAfterWithdrawalCreatesNewRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seeker, first.ID); err != nil {
		t.Fatalf("Withdraw error: %v", err)
	}
	second, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a new record")
	}
	old, err := f.store.GetApplication(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if old.Status != model.StatusWithdrawn {
		t.Fatalf("expected first record to stay withdrawn, got %s", old.Status)
	}
}

func TestReapplyAfterRejection(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.employer, first.ID, "rejected"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.seeker, f.job.ID, ""); err != nil {
		t.Fatalf("expected re-application after rejection, got %v", err)
	}
	if f.activeCount(t) != 1 {
		t.Fatalf("expected exactly 1 active application")
	}
}

func TestUpdateStatusRejectsNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	_, err = f.svc.UpdateStatus(ctx, f.employer, app.ID, "applied")
	if !errors.Is(err, apperr.ErrNoOpTransition) {
		t.Fatalf("expected NoOpTransition, got %v", err)
	}
	got, err := f.store.GetApplication(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if got.Status != model.StatusApplied || !got.UpdatedAt.Equal(app.UpdatedAt) {
		t.Fatalf("expected record unchanged, got %+v", got)
	}
	if len(f.notifications(t, f.seeker.UserID)) != 0 {
		t.Fatalf("expected no notification for no-op")
	}
}

func TestUpdateStatusNotifiesApplicant(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	updated, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, "  Shortlisted ")
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != model.StatusShortlisted {
		t.Fatalf("expected shortlisted, got %s", updated.Status)
	}

	items := f.notifications(t, f.seeker.UserID)
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(items))
	}
	if !strings.Contains(items[0].Message, "Shortlisted") || items[0].IsRead {
		t.Fatalf("unexpected notification %+v", items[0])
	}
}

func TestUpdateStatusHumanizesMultiWordStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, "interview_called"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	items := f.notifications(t, f.seeker.UserID)
	if len(items) != 1 || !strings.Contains(items[0].Message, "Interview Called") {
		t.Fatalf("expected humanized status in message, got %+v", items)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	_, err = f.svc.UpdateStatus(ctx, f.employer, app.ID, "promoted")
	var appErr *apperr.Error
	if !errors.Is(err, apperr.ErrInvalidStatus) || !errors.As(err, &appErr) || appErr.Fields["status"] == "" {
		t.Fatalf("expected InvalidStatus with field detail, got %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, f.seeker, app.ID, "offered"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("expected NotAuthorized for seeker, got %v", err)
	}
}

func TestUpdateStatusRequiresCompanyEmployer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	stranger := &model.User{Email: "stranger@example.com", Username: "stranger", Role: model.RoleEmployer, EmployerProfile: &model.EmployerProfile{}}
	if err := f.store.CreateUser(ctx, stranger); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	unlinked := resolve(t, f.store, stranger.ID)
	if _, err := f.svc.UpdateStatus(ctx, unlinked, app.ID, "offered"); !errors.Is(err, apperr.ErrNoLinkedCompany) {
		t.Fatalf("expected NoLinkedCompany, got %v", err)
	}

	if err := f.store.CreateCompany(ctx, &model.Company{Name: "Globex"}, stranger.ID); err != nil {
		t.Fatalf("CreateCompany error: %v", err)
	}
	other := resolve(t, f.store, stranger.ID)
	if _, err := f.svc.UpdateStatus(ctx, other, app.ID, "offered"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("expected NotAuthorized for other company, got %v", err)
	}

	colleague := &model.User{Email: "colleague@example.com", Username: "colleague", Role: model.RoleEmployer, EmployerProfile: &model.EmployerProfile{}}
	if err := f.store.CreateUser(ctx, colleague); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if err := f.store.LinkEmployerCompany(ctx, colleague.ID, f.job.CompanyID); err != nil {
		t.Fatalf("LinkEmployerCompany error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, resolve(t, f.store, colleague.ID), app.ID, "offered"); err != nil {
		t.Fatalf("expected same-company employer to update, got %v", err)
	}
}

func TestUpdateStatusPermissiveGraph(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	for _, status := range []string{"hired", "resume_screening", "offered", "applied"} {
		if _, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, status); err != nil {
			t.Fatalf("UpdateStatus to %s error: %v", status, err)
		}
	}
}

func TestUpdateStatusReactivationBlockedByNewerActiveApplication(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.employer, first.ID, "rejected"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.seeker, f.job.ID, ""); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	_, err = f.svc.UpdateStatus(ctx, f.employer, first.ID, "shortlisted")
	if !errors.Is(err, apperr.ErrDuplicateActiveApplication) {
		t.Fatalf("expected DuplicateActiveApplication, got %v", err)
	}
	if f.activeCount(t) != 1 {
		t.Fatalf("expected exactly 1 active application")
	}
}

func TestSubmitInactiveJob(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	if err := f.store.SetJobActive(ctx, f.job.ID, false); err != nil {
		t.Fatalf("SetJobActive error: %v", err)
	}
	_, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if !errors.Is(err, apperr.ErrJobNotActive) {
		t.Fatalf("expected JobNotActive, got %v", err)
	}
	apps, err := f.store.ListApplications(ctx, storage.ApplicationQuery{JobID: f.job.ID})
	if err != nil {
		t.Fatalf("ListApplications error: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected no record, got %d", len(apps))
	}
}

func TestSubmitRequiresSeekerAndExistingJob(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.employer, f.job.ID, ""); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("expected NotAuthorized for employer, got %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.seeker, "missing", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := f.svc.Submit(ctx, nil, f.job.ID, ""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestConcurrentSubmitKeepsSingleActive(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrDuplicateActiveApplication):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected 1 success, got %d", succeeded)
	}
	if f.activeCount(t) != 1 {
		t.Fatalf("expected 1 active application")
	}
}

func TestWithdrawOwnershipAndRepeat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.employer, app.ID); !errors.Is(err, apperr.ErrNotOwner) {
		t.Fatalf("expected NotOwner, got %v", err)
	}
	withdrawn, err := f.svc.Withdraw(ctx, f.seeker, app.ID)
	if err != nil {
		t.Fatalf("Withdraw error: %v", err)
	}
	if withdrawn.Status != model.StatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", withdrawn.Status)
	}
	if _, err := f.svc.Withdraw(ctx, f.seeker, app.ID); !errors.Is(err, apperr.ErrAlreadyWithdrawn) {
		t.Fatalf("expected AlreadyWithdrawn, got %v", err)
	}
	// 撤回不通知雇主，雇主只有一条新投递通知。
	if got := len(f.notifications(t, f.employer.UserID)); got != 1 {
		t.Fatalf("expected only the new application notification, got %d", got)
	}
}

// 已拒绝的投递仍允许撤回；若产品决定禁止，需要同时修改此测试。
func TestWithdrawFromRejectedIsPermitted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, "rejected"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seeker, app.ID); err != nil {
		t.Fatalf("expected withdraw from rejected to be permitted, got %v", err)
	}
}

func TestStatusUpdateSucceedsWhenEmailFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &recordingSender{err: errors.New("smtp down")})
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, "offered"); err != nil {
		t.Fatalf("expected update to succeed despite email failure, got %v", err)
	}
	if len(f.notifications(t, f.seeker.UserID)) != 1 {
		t.Fatalf("expected notification record despite email failure")
	}
}

func TestDeactivatedJobKeepsApplicationsManageable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if err := f.store.SetJobActive(ctx, f.job.ID, false); err != nil {
		t.Fatalf("SetJobActive error: %v", err)
	}

	updated, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, "shortlisted")
	if err != nil {
		t.Fatalf("expected status update on inactive job to succeed, got %v", err)
	}
	if updated.Status != model.StatusShortlisted {
		t.Fatalf("expected shortlisted, got %s", updated.Status)
	}
	withdrawn, err := f.svc.Withdraw(ctx, f.seeker, app.ID)
	if err != nil {
		t.Fatalf("expected withdraw on inactive job to succeed, got %v", err)
	}
	if withdrawn.Status != model.StatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", withdrawn.Status)
	}

	got, err := f.svc.Get(ctx, f.seeker, app.ID)
	if err != nil || got.Status != model.StatusWithdrawn {
		t.Fatalf("expected application still readable, got %+v (%v)", got, err)
	}
	if _, err := f.svc.Submit(ctx, f.seeker, f.job.ID, ""); !errors.Is(err, apperr.ErrJobNotActive) {
		t.Fatalf("expected new submissions blocked, got %v", err)
	}
}

func TestNotificationsSurviveCanceledRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	store := &cancelAfterCommitStore{Store: f.store}
	svc := NewService(store, notifier.NewEmitter(f.store, nil, "board@example.com", nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	store.cancel = cancel
	app, err := svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("expected submit to succeed after commit, got %v", err)
	}
	if app.Job == nil {
		t.Fatalf("expected hydrated application")
	}
	if items := f.notifications(t, f.employer.UserID); len(items) != 1 {
		t.Fatalf("expected poster notification despite canceled request, got %d", len(items))
	}

	ctx, cancel = context.WithCancel(context.Background())
	store.cancel = cancel
	if _, err := svc.UpdateStatus(ctx, f.employer, app.ID, "shortlisted"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	items := f.notifications(t, f.seeker.UserID)
	if len(items) != 1 || items[0].Event != model.EventStatusChanged {
		t.Fatalf("expected status notification despite canceled request, got %+v", items)
	}
}

func TestListAndGetVisibility(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.seeker, f.job.ID, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, f.seeker)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected 1 own application, got %d (%v)", len(mine), err)
	}
	received, err := f.svc.ListForEmployer(ctx, f.employer, "")
	if err != nil || len(received) != 1 {
		t.Fatalf("expected 1 received application, got %d (%v)", len(received), err)
	}
	if _, err := f.svc.Get(ctx, f.employer, app.ID); err != nil {
		t.Fatalf("expected poster to see application, got %v", err)
	}

	other := &model.User{Email: "other@example.com", Username: "other", Role: model.RoleJobSeeker, SeekerProfile: &model.SeekerProfile{}}
	if err := f.store.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if _, err := f.svc.Get(ctx, resolve(t, f.store, other.ID), app.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("expected NotAuthorized for other seeker, got %v", err)
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []notifier.EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notifier.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *recordingSender) sent() []notifier.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifier.EmailMessage(nil), s.msgs...)
}

// cancelAfterCommitStore 在写入成功后取消请求上下文，模拟客户端提前断开。
type cancelAfterCommitStore struct {
	*storage.Store
	cancel context.CancelFunc
}

func (s *cancelAfterCommitStore) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	err := s.Store.CreateApplication(ctx, app)
	if err == nil {
		s.cancel()
	}
	return err
}

func (s *cancelAfterCommitStore) UpdateApplicationStatus(ctx context.Context, id string, from, to model.ApplicationStatus) error {
	err := s.Store.UpdateApplicationStatus(ctx, id, from, to)
	if err == nil {
		s.cancel()
	}
	return err
}
