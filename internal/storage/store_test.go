package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"jobboard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "jobboard.db"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func seedEmployer(t *testing.T, store *Store, email, companyName string) (*model.User, *model.Company) {
	t.Helper()

	ctx := context.Background()
	user := &model.User{Email: email, Username: email, Role: model.RoleEmployer, EmployerProfile: &model.EmployerProfile{}}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	company := &model.Company{Name: companyName}
	if err := store.CreateCompany(ctx, company, user.ID); err != nil {
		t.Fatalf("CreateCompany error: %v", err)
	}
	return user, company
}

func seedSeeker(t *testing.T, store *Store, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, Username: email, Role: model.RoleJobSeeker, SeekerProfile: &model.SeekerProfile{ResumeRef: "resumes/" + email}}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	return user
}

func seedJob(t *testing.T, store *Store, company *model.Company, poster *model.User, title string) *model.JobPosting {
	t.Helper()

	job := &model.JobPosting{CompanyID: company.ID, PosterID: &poster.ID, Title: title, Location: "Remote", Description: "Build things"}
	if err := store.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob error: %v", err)
	}
	return job
}

func TestNewStoreMigratesTwice(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate error: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open(Config{Driver: "postgres"}); err == nil {
		t.Fatalf("expected error for postgres without dsn")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedSeeker(t, store, "dup@example.com")

	err := store.CreateUser(context.Background(), &model.User{Email: "DUP@example.com", Username: "dup", Role: model.RoleJobSeeker})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserPreloadsEmployerCompany(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	user, company := seedEmployer(t, store, "boss@example.com", "Acme")

	got, err := store.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if got.EmployerProfile == nil || got.EmployerProfile.Company == nil {
		t.Fatalf("expected employer profile with company, got %+v", got.EmployerProfile)
	}
	if got.EmployerProfile.Company.ID != company.ID {
		t.Fatalf("expected company %s, got %s", company.ID, got.EmployerProfile.Company.ID)
	}

	if _, err := store.GetUser(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCompanyGeneratesSequentialCustomIDs(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, first := seedEmployer(t, store, "a@example.com", "Alpha")
	_, second := seedEmployer(t, store, "b@example.com", "Beta")

	if first.CustomID != "CMP-001" || second.CustomID != "CMP-002" {
		t.Fatalf("unexpected custom ids %s, %s", first.CustomID, second.CustomID)
	}

	err := store.CreateCompany(context.Background(), &model.Company{Name: "ALPHA"}, "")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected case-insensitive name clash, got %v", err)
	}
}

func TestJobTitleUniquePerCompany(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	other, globex := seedEmployer(t, store, "other@example.com", "Globex")
	job := seedJob(t, store, acme, boss, "Engineer")

	exists, err := store.JobTitleExists(ctx, acme.ID, "  ENGINEER ", "")
	if err != nil {
		t.Fatalf("JobTitleExists error: %v", err)
	}
	if !exists {
		t.Fatalf("expected title clash within company")
	}
	exists, err = store.JobTitleExists(ctx, acme.ID, "engineer", job.ID)
	if err != nil {
		t.Fatalf("JobTitleExists error: %v", err)
	}
	if exists {
		t.Fatalf("expected posting itself to be excluded")
	}

	dup := &model.JobPosting{CompanyID: acme.ID, PosterID: &boss.ID, Title: "engineer"}
	if err := store.CreateJob(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected index to reject duplicate title, got %v", err)
	}
	seedJob(t, store, globex, other, "Engineer")
}

func TestFoldKeysCoverNonASCIICase(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, oko := seedEmployer(t, store, "boss@example.com", "ÖKO Bau")
	seedJob(t, store, oko, boss, "ÉLECTRICIEN")

	exists, err := store.JobTitleExists(ctx, oko.ID, "électricien", "")
	if err != nil {
		t.Fatalf("JobTitleExists error: %v", err)
	}
	if !exists {
		t.Fatalf("expected accented title to clash regardless of case")
	}
	dup := &model.JobPosting{CompanyID: oko.ID, PosterID: &boss.ID, Title: "électricien"}
	if err := store.CreateJob(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected index to reject accented duplicate, got %v", err)
	}

	renamed := seedJob(t, store, oko, boss, "Maçon")
	renamed.Title = "ÉLECTRICIEN "
	if err := store.UpdateJob(ctx, renamed); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected rename onto accented title to clash, got %v", err)
	}
	if err := store.SetJobActive(ctx, renamed.ID, false); err != nil {
		t.Fatalf("SetJobActive error: %v", err)
	}
	exists, err = store.JobTitleExists(ctx, oko.ID, "MAÇON", "")
	if err != nil {
		t.Fatalf("JobTitleExists error: %v", err)
	}
	if !exists {
		t.Fatalf("expected title key to survive partial update")
	}

	taken, err := store.CompanyNameExists(ctx, "öko bau", "")
	if err != nil {
		t.Fatalf("CompanyNameExists error: %v", err)
	}
	if !taken {
		t.Fatalf("expected accented company name to clash regardless of case")
	}
	if err := store.CreateCompany(ctx, &model.Company{Name: "öko bau"}, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected index to reject accented company name, got %v", err)
	}
}

func TestCreateApplicationIncrementsCounterAndEnforcesActiveUniqueness(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	seeker := seedSeeker(t, store, "seeker@example.com")
	job := seedJob(t, store, acme, boss, "Engineer")

	first := &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied}
	if err := store.CreateApplication(ctx, first); err != nil {
		t.Fatalf("CreateApplication error: %v", err)
	}

	second := &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied}
	if err := store.CreateApplication(ctx, second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := store.UpdateApplicationStatus(ctx, first.ID, model.StatusApplied, model.StatusWithdrawn); err != nil {
		t.Fatalf("UpdateApplicationStatus error: %v", err)
	}
	if err := store.CreateApplication(ctx, second); err != nil {
		t.Fatalf("expected re-application after withdrawal, got %v", err)
	}

	// 重新激活已撤回的投递会产生两条有效投递，必须被索引拒绝。
	err := store.UpdateApplicationStatus(ctx, first.ID, model.StatusWithdrawn, model.StatusShortlisted)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on reactivation, got %v", err)
	}

	got, err := store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob error: %v", err)
	}
	if got.ApplicantsCount != 2 {
		t.Fatalf("expected applicants_count 2, got %d", got.ApplicantsCount)
	}
}

func TestCreateApplicationRejectsInactiveJob(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	seeker := seedSeeker(t, store, "seeker@example.com")
	job := seedJob(t, store, acme, boss, "Engineer")

	if err := store.SetJobActive(ctx, job.ID, false); err != nil {
		t.Fatalf("SetJobActive error: %v", err)
	}
	err := store.CreateApplication(ctx, &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied})
	if !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestConcurrentApplicationsKeepSingleActive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	seeker := seedSeeker(t, store, "seeker@example.com")
	job := seedJob(t, store, acme, boss, "Engineer")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.CreateApplication(ctx, &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrDuplicate):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful application, got %d", succeeded)
	}

	active, err := store.CountActiveApplications(ctx, seeker.ID, job.ID)
	if err != nil {
		t.Fatalf("CountActiveApplications error: %v", err)
	}
	if active != 1 {
		t.Fatalf("expected 1 active application, got %d", active)
	}
}

func TestUpdateApplicationStatusDetectsStaleStatus(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	seeker := seedSeeker(t, store, "seeker@example.com")
	job := seedJob(t, store, acme, boss, "Engineer")

	app := &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied}
	if err := store.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication error: %v", err)
	}
	err := store.UpdateApplicationStatus(ctx, app.ID, model.StatusShortlisted, model.StatusOffered)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestListApplicationsByPoster(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	other, globex := seedEmployer(t, store, "other@example.com", "Globex")
	seeker := seedSeeker(t, store, "seeker@example.com")
	mine := seedJob(t, store, acme, boss, "Engineer")
	theirs := seedJob(t, store, globex, other, "Engineer")

	for _, job := range []*model.JobPosting{mine, theirs} {
		if err := store.CreateApplication(ctx, &model.JobApplication{ApplicantID: seeker.ID, JobID: job.ID, Status: model.StatusApplied}); err != nil {
			t.Fatalf("CreateApplication error: %v", err)
		}
	}

	apps, err := store.ListApplications(ctx, ApplicationQuery{PosterID: boss.ID})
	if err != nil {
		t.Fatalf("ListApplications error: %v", err)
	}
	if len(apps) != 1 || apps[0].JobID != mine.ID {
		t.Fatalf("expected only applications for own job, got %+v", apps)
	}
	if apps[0].Job == nil || apps[0].Applicant == nil {
		t.Fatalf("expected hydrated job and applicant")
	}
}

func TestSavedJobsUniqueAndCascadeOnDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	boss, acme := seedEmployer(t, store, "boss@example.com", "Acme")
	seeker := seedSeeker(t, store, "seeker@example.com")
	job := seedJob(t, store, acme, boss, "Engineer")

	if err := store.SaveJob(ctx, &model.SavedJob{UserID: seeker.ID, JobID: job.ID}); err != nil {
		t.Fatalf("SaveJob error: %v", err)
	}
	if err := store.SaveJob(ctx, &model.SavedJob{UserID: seeker.ID, JobID: job.ID}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := store.DeleteJob(ctx, job.ID); err != nil {
		t.Fatalf("DeleteJob error: %v", err)
	}
	saved, err := store.ListSavedJobs(ctx, seeker.ID)
	if err != nil {
		t.Fatalf("ListSavedJobs error: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("expected saved jobs to cascade, got %d", len(saved))
	}
}

func TestNotificationsReadAndClear(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seeker := seedSeeker(t, store, "seeker@example.com")

	for _, msg := range []string{"one", "two"} {
		if err := store.CreateNotification(ctx, &model.Notification{UserID: seeker.ID, Event: model.EventStatusChanged, Message: msg}); err != nil {
			t.Fatalf("CreateNotification error: %v", err)
		}
	}
	items, err := store.ListNotifications(ctx, seeker.ID, 0)
	if err != nil {
		t.Fatalf("ListNotifications error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(items))
	}

	if err := store.MarkNotificationRead(ctx, "someone-else", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := store.MarkNotificationRead(ctx, seeker.ID, items[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead error: %v", err)
	}
	unread, err := store.CountUnreadNotifications(ctx, seeker.ID)
	if err != nil {
		t.Fatalf("CountUnreadNotifications error: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected 1 unread, got %d", unread)
	}

	cleared, err := store.ClearNotifications(ctx, seeker.ID)
	if err != nil {
		t.Fatalf("ClearNotifications error: %v", err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared, got %d", cleared)
	}
}

func TestUpsertSubscriberReactivates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertSubscriber(ctx, &model.NewsletterSubscriber{Email: "News@Example.com", Channel: "email"}); err != nil {
		t.Fatalf("UpsertSubscriber error: %v", err)
	}
	if err := store.DeactivateSubscriber(ctx, "news@example.com"); err != nil {
		t.Fatalf("DeactivateSubscriber error: %v", err)
	}
	subs, err := store.ListSubscribers(ctx)
	if err != nil {
		t.Fatalf("ListSubscribers error: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected no active subscribers, got %d", len(subs))
	}

	if err := store.UpsertSubscriber(ctx, &model.NewsletterSubscriber{Email: "news@example.com", Channel: "email"}); err != nil {
		t.Fatalf("UpsertSubscriber second run error: %v", err)
	}
	subs, err = store.ListSubscribers(ctx)
	if err != nil {
		t.Fatalf("ListSubscribers error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 active subscriber, got %d", len(subs))
	}
}
