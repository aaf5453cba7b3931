package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"regdesk/internal/dto"
	"regdesk/internal/model"
	"regdesk/internal/repo/repotest"
)

func validRegistration(email string) dto.RegistrationRequest {
	return dto.RegistrationRequest{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     email,
		Phone:     "+2348012345678",
		Gender:    "female",
		DOB:       "1995-04-12",
		Attended:  "yes",
	}
}

func openCampaign(store *repotest.Fake, slug string) int64 {
	return store.PutCampaign(model.Campaign{
		Slug:               slug,
		Title:              "Youth Summit",
		Status:             model.CampaignPublished,
		IsRegistrationOpen: true,
		RegistrationFee:    50000,
	})
}

func TestSubmitRegistration(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	cid := openCampaign(store, "summit")
	notifier := &fakeNotifier{}
	svc := NewRegistrations(store, notifier, nil, &nopLog)

	resp, res := svc.Submit(ctx, "summit", validRegistration(" Ada@Example.com "))
	if !res.Success {
		t.Fatalf("Submit() = %+v, want success", res)
	}
	if res.Message != "Registration submitted successfully!" {
		t.Fatalf("message = %q", res.Message)
	}
	if !resp.EmailSent {
		t.Fatalf("EmailSent = false, want true")
	}

	reg, err := store.GetRegistrationByID(ctx, resp.RegistrationID)
	if err != nil {
		t.Fatalf("GetRegistrationByID: %v", err)
	}
	if reg.CampaignID != cid || reg.Email != "ada@example.com" {
		t.Fatalf("stored registration = %+v", reg)
	}
	if reg.Status != model.ApprovalPending || reg.PaymentStatus != model.PaymentUnpaid {
		t.Fatalf("initial state = %s/%s, want pending/unpaid", reg.Status, reg.PaymentStatus)
	}
	if reg.Attended == nil || !*reg.Attended {
		t.Fatalf("Attended = %v, want true", reg.Attended)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Kind != model.EmailConfirmation {
		t.Fatalf("sent = %+v, want one confirmation", notifier.sent)
	}

	_, res = svc.Submit(ctx, "summit", validRegistration("ADA@example.com"))
	if res.Code != dto.RegistrationDuplicate {
		t.Fatalf("duplicate Submit() = %+v, want %s", res, dto.RegistrationDuplicate)
	}
	if res.Message != "This email has already been registered for this campaign." {
		t.Fatalf("duplicate message = %q", res.Message)
	}
}

func TestSubmitSameEmailAcrossCampaigns(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	openCampaign(store, "summit")
	openCampaign(store, "retreat")
	svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)

	for _, slug := range []string{"summit", "retreat"} {
		if _, res := svc.Submit(ctx, slug, validRegistration("ada@example.com")); !res.Success {
			t.Fatalf("Submit(%s) = %+v", slug, res)
		}
	}
}

func TestSubmitAttendedMapping(t *testing.T) {
	tests := []struct {
		attended string
		want     *bool
	}{
		{"yes", boolPtr(true)},
		{"no", boolPtr(false)},
		{"", nil},
		{"maybe", nil},
	}
	for i, tt := range tests {
		store := repotest.New()
		openCampaign(store, "summit")
		svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)
		req := validRegistration("ada@example.com")
		req.Attended = tt.attended
		resp, res := svc.Submit(context.Background(), "summit", req)
		if !res.Success {
			t.Fatalf("#%d Submit() = %+v", i, res)
		}
		reg, _ := store.GetRegistrationByID(context.Background(), resp.RegistrationID)
		switch {
		case tt.want == nil && reg.Attended != nil:
			t.Fatalf("#%d Attended = %v, want nil", i, *reg.Attended)
		case tt.want != nil && (reg.Attended == nil || *reg.Attended != *tt.want):
			t.Fatalf("#%d Attended = %v, want %v", i, reg.Attended, *tt.want)
		}
	}
}

func TestSubmitEmailFailureStillSucceeds(t *testing.T) {
	store := repotest.New()
	openCampaign(store, "summit")
	svc := NewRegistrations(store, &fakeNotifier{fail: true}, nil, &nopLog)

	resp, res := svc.Submit(context.Background(), "summit", validRegistration("ada@example.com"))
	if !res.Success {
		t.Fatalf("Submit() = %+v, want success", res)
	}
	if resp.EmailSent {
		t.Fatalf("EmailSent = true, want false")
	}
	if _, err := store.GetRegistrationByID(context.Background(), resp.RegistrationID); err != nil {
		t.Fatalf("registration not stored: %v", err)
	}
}

func TestSubmitRejected(t *testing.T) {
	tests := []struct {
		name     string
		campaign model.Campaign
		slug     string
		want     string
	}{
		{"unknown slug", model.Campaign{Slug: "summit", Status: model.CampaignPublished, IsRegistrationOpen: true}, "other", dto.CampaignNotFound},
		{"flag off", model.Campaign{Slug: "summit", Status: model.CampaignPublished}, "summit", dto.RegistrationClosed},
		{"draft", model.Campaign{Slug: "summit", Status: model.CampaignDraft}, "summit", dto.RegistrationClosed},
		{"closed", model.Campaign{Slug: "summit", Status: model.CampaignClosed}, "summit", dto.RegistrationClosed},
		{"archived with stale flag", model.Campaign{Slug: "summit", Status: model.CampaignArchived, IsRegistrationOpen: true}, "summit", dto.RegistrationClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repotest.New()
			store.PutCampaign(tt.campaign)
			notifier := &fakeNotifier{}
			svc := NewRegistrations(store, notifier, nil, &nopLog)
			_, res := svc.Submit(context.Background(), tt.slug, validRegistration("ada@example.com"))
			if res.Code != tt.want {
				t.Fatalf("Submit() = %+v, want %s", res, tt.want)
			}
			if len(notifier.sent) != 0 {
				t.Fatalf("sent %d emails for a rejected submission", len(notifier.sent))
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	store := repotest.New()
	openCampaign(store, "summit")
	svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)

	req := validRegistration("not-an-email")
	if _, res := svc.Submit(context.Background(), "summit", req); res.Code != dto.FieldIncorrect {
		t.Fatalf("Submit(bad email) = %+v", res)
	}
	req = validRegistration("ada@example.com")
	req.DOB = "12/04/1995"
	if _, res := svc.Submit(context.Background(), "summit", req); res.Code != dto.FieldIncorrect {
		t.Fatalf("Submit(bad dob) = %+v", res)
	}
}

func seedRegistrations(t *testing.T) (*repotest.Fake, int64, []int64) {
	t.Helper()
	ctx := context.Background()
	store := repotest.New()
	cid := openCampaign(store, "summit")
	var ids []int64
	for _, email := range []string{"ada@example.com", "bayo@example.com", "chi@example.com"} {
		id, err := store.CreateRegistration(ctx, &model.NewRegistration{
			CampaignID: cid, FirstName: strings.Split(email, "@")[0], LastName: "Test", Email: email, DOB: "1990-01-01",
		})
		if err != nil {
			t.Fatalf("CreateRegistration: %v", err)
		}
		ids = append(ids, id)
	}
	return store, cid, ids
}

func TestApproveKeepsPaymentStatus(t *testing.T) {
	ctx := context.Background()
	store, _, ids := seedRegistrations(t)
	notifier := &fakeNotifier{}
	svc := NewRegistrations(store, notifier, nil, &nopLog)

	if res := svc.SetPayment(ctx, ids[0], dto.PaymentRequest{Status: "paid", Reference: "TRX-9"}); !res.Success {
		t.Fatalf("SetPayment() = %+v", res)
	}
	if res := svc.Approve(ctx, ids[0], true); !res.Success {
		t.Fatalf("Approve() = %+v", res)
	}
	reg, _ := store.GetRegistrationByID(ctx, ids[0])
	if reg.Status != model.ApprovalApproved || reg.PaymentStatus != model.PaymentPaid {
		t.Fatalf("state = %s/%s, want approved/paid", reg.Status, reg.PaymentStatus)
	}
	if reg.PaymentDate == nil || reg.PaymentReference != "TRX-9" {
		t.Fatalf("payment = %v/%q", reg.PaymentDate, reg.PaymentReference)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Kind != model.EmailApproval {
		t.Fatalf("sent = %+v, want one approval", notifier.sent)
	}

	if res := svc.Approve(ctx, 999, false); res.Code != dto.RegistrationNotFound {
		t.Fatalf("Approve(missing) = %+v", res)
	}
	if res := svc.Reject(ctx, ids[1]); !res.Success {
		t.Fatalf("Reject() = %+v", res)
	}
	if res := svc.SetPayment(ctx, ids[1], dto.PaymentRequest{Status: "pending"}); res.Code != dto.FieldIncorrect {
		t.Fatalf("SetPayment(bad status) = %+v", res)
	}
}

func TestBulkApprove(t *testing.T) {
	ctx := context.Background()
	store, cid, ids := seedRegistrations(t)
	notifier := &fakeNotifier{}
	svc := NewRegistrations(store, notifier, nil, &nopLog)

	resp, res := svc.BulkApprove(ctx, dto.BulkApproveRequest{IDs: ids[:2], Notify: true})
	if !res.Success {
		t.Fatalf("BulkApprove() = %+v", res)
	}
	if resp.Updated != 2 || resp.Emailed != 2 {
		t.Fatalf("BulkApprove() = %+v, want 2 updated and 2 emailed", resp)
	}
	stats, _ := svc.Stats(ctx, cid)
	if stats.Total != 3 || stats.Approved != 2 || stats.Pending != 1 || stats.Unpaid != 3 {
		t.Fatalf("Stats() = %+v", stats)
	}

	if _, res := svc.BulkApprove(ctx, dto.BulkApproveRequest{}); res.Code != dto.FieldIncorrect {
		t.Fatalf("BulkApprove(empty) = %+v", res)
	}
}

func TestSendEmail(t *testing.T) {
	ctx := context.Background()
	store, _, ids := seedRegistrations(t)

	svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)
	if res := svc.SendEmail(ctx, ids[0], model.EmailReminder); !res.Success {
		t.Fatalf("SendEmail() = %+v", res)
	}
	if res := svc.SendEmail(ctx, ids[0], "newsletter"); res.Code != dto.FieldIncorrect {
		t.Fatalf("SendEmail(unknown kind) = %+v", res)
	}
	if res := svc.SendEmail(ctx, 999, model.EmailReminder); res.Code != dto.RegistrationNotFound {
		t.Fatalf("SendEmail(missing) = %+v", res)
	}

	failing := NewRegistrations(store, &fakeNotifier{fail: true}, nil, &nopLog)
	if res := failing.SendEmail(ctx, ids[0], model.EmailReminder); res.Code != dto.EmailNotSent {
		t.Fatalf("SendEmail(failing sender) = %+v, want %s", res, dto.EmailNotSent)
	}
}

func TestListRegistrations(t *testing.T) {
	ctx := context.Background()
	store, cid, ids := seedRegistrations(t)
	svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)
	_ = svc.Reject(ctx, ids[2])

	all, res := svc.List(ctx, cid, model.RegistrationFilter{})
	if !res.Success || len(all) != 3 {
		t.Fatalf("List() = %d, %+v", len(all), res)
	}
	if all[0].ID != ids[2] {
		t.Fatalf("List()[0] = %d, want newest %d", all[0].ID, ids[2])
	}

	rejected, _ := svc.List(ctx, cid, model.RegistrationFilter{Status: model.ApprovalRejected})
	if len(rejected) != 1 || rejected[0].ID != ids[2] {
		t.Fatalf("List(rejected) = %+v", rejected)
	}
	found, _ := svc.List(ctx, cid, model.RegistrationFilter{Search: "BAYO"})
	if len(found) != 1 || found[0].ID != ids[1] {
		t.Fatalf("List(search) = %+v", found)
	}

	if _, res := svc.List(ctx, cid, model.RegistrationFilter{Status: "maybe"}); res.Code != dto.FieldIncorrect {
		t.Fatalf("List(bad status) = %+v", res)
	}
	if _, res := svc.List(ctx, 999, model.RegistrationFilter{}); res.Code != dto.CampaignNotFound {
		t.Fatalf("List(missing campaign) = %+v", res)
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	store, cid, ids := seedRegistrations(t)
	svc := NewRegistrations(store, &fakeNotifier{}, nil, &nopLog)
	_ = svc.Reject(ctx, ids[0])

	body, name, res := svc.ExportCSV(ctx, cid, model.RegistrationFilter{Status: model.ApprovalPending})
	if !res.Success {
		t.Fatalf("ExportCSV() = %+v", res)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want header + 2", len(lines))
	}
	if !strings.HasPrefix(name, "summit") || !strings.HasSuffix(name, ".csv") {
		t.Fatalf("filename = %q", name)
	}
}

func TestQueueReminders(t *testing.T) {
	ctx := context.Background()
	store, cid, ids := seedRegistrations(t)
	_ = store.SetPaymentStatus(ctx, ids[0], model.PaymentPaid, "")

	pub := &fakePublisher{}
	notifier := &fakeNotifier{}
	svc := NewRegistrations(store, notifier, pub, &nopLog)
	resp, res := svc.QueueReminders(ctx, cid)
	if !res.Success || resp.Queued != 2 {
		t.Fatalf("QueueReminders() = %+v, %+v", resp, res)
	}
	if len(pub.bodies) != 2 || len(notifier.sent) != 0 {
		t.Fatalf("published %d, sent inline %d", len(pub.bodies), len(notifier.sent))
	}
	var job dto.ReminderJob
	if err := json.Unmarshal(pub.bodies[0], &job); err != nil || job.CampaignID != cid {
		t.Fatalf("job = %+v, err %v", job, err)
	}

	var logs bytes.Buffer
	bufLog := zerolog.New(&logs)
	inline := NewRegistrations(store, notifier, &fakePublisher{err: errBoom}, &bufLog)
	resp, _ = inline.QueueReminders(ctx, cid)
	if resp.Queued != 2 || len(notifier.sent) != 2 {
		t.Fatalf("fallback queued %d, sent %d", resp.Queued, len(notifier.sent))
	}
	if !strings.Contains(logs.String(), `"error":"publish reminder job: boom"`) {
		t.Fatalf("fallback log = %s, want the publish error", logs.String())
	}
	for _, m := range notifier.sent {
		if m.Kind != model.EmailReminder || m.RegID == ids[0] {
			t.Fatalf("unexpected reminder %+v", m)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
