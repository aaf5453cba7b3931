// Package repotest provides an in-memory repo.Repository with the same
// constraint behaviour as the Postgres schema.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"regdesk/internal/model"
	"regdesk/internal/repo"
)

type Fake struct {
	mu sync.Mutex

	nextID        int64
	campaigns     map[int64]*model.Campaign
	registrations map[int64]*model.CampaignRegistration
	images        map[int64]*model.CampaignImage
	tracking      []model.EmailTracking

	// Err, when set, is returned by every call.
	Err error
}

var _ repo.Repository = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		campaigns:     map[int64]*model.Campaign{},
		registrations: map[int64]*model.CampaignRegistration{},
		images:        map[int64]*model.CampaignImage{},
	}
}

func (f *Fake) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *Fake) CreateCampaign(_ context.Context, c *model.Campaign) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	for _, existing := range f.campaigns {
		if existing.Slug == c.Slug {
			return 0, repo.ErrDuplicateSlug
		}
	}
	cp := *c
	cp.ID = f.id()
	cp.Status = model.CampaignDraft
	cp.IsRegistrationOpen = false
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.campaigns[cp.ID] = &cp
	return cp.ID, nil
}

// PutCampaign stores c as-is, bypassing lifecycle rules.
func (f *Fake) PutCampaign(c model.Campaign) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == 0 {
		c.ID = f.id()
	}
	f.campaigns[c.ID] = &c
	return c.ID
}

func (f *Fake) GetCampaignByID(_ context.Context, id int64) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, repo.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *Fake) GetCampaignBySlug(_ context.Context, slug string) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, c := range f.campaigns {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.ErrCampaignNotFound
}

func (f *Fake) ListCampaigns(_ context.Context, includeArchived bool) ([]model.Campaign, error) {
	return f.filterCampaigns(func(c *model.Campaign) bool {
		return includeArchived || c.Status != model.CampaignArchived
	})
}

func (f *Fake) ListPublishedCampaigns(_ context.Context) ([]model.Campaign, error) {
	return f.filterCampaigns(func(c *model.Campaign) bool { return c.Status == model.CampaignPublished })
}

func (f *Fake) filterCampaigns(keep func(*model.Campaign) bool) ([]model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := []model.Campaign{}
	for _, c := range f.campaigns {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) UpdateCampaign(_ context.Context, id int64, p model.CampaignPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	c, ok := f.campaigns[id]
	if !ok {
		return repo.ErrCampaignNotFound
	}
	setString(&c.Title, p.Title)
	setString(&c.Subtitle, p.Subtitle)
	setString(&c.Description, p.Description)
	setDate(&c.StartDate, p.StartDate)
	setDate(&c.EndDate, p.EndDate)
	setString(&c.Location, p.Location)
	setString(&c.VenueDetails, p.VenueDetails)
	if p.RegistrationFee != nil {
		c.RegistrationFee = *p.RegistrationFee
	}
	if p.RegistrationDeadline != nil && *p.RegistrationDeadline != "" {
		if t, err := time.Parse("2006-01-02", *p.RegistrationDeadline); err == nil {
			c.RegistrationDeadline = &t
		}
	}
	if p.TargetParticipants != nil {
		v := *p.TargetParticipants
		c.TargetParticipants = &v
	}
	setString(&c.BannerImageURL, p.BannerImageURL)
	setString(&c.LogoImageURL, p.LogoImageURL)
	setString(&c.ContactPhone, p.ContactPhone)
	setString(&c.ContactEmail, p.ContactEmail)
	setString(&c.PaymentAccountName, p.PaymentAccountName)
	setString(&c.PaymentAccountNumber, p.PaymentAccountNumber)
	setString(&c.PaymentBank, p.PaymentBank)
	setString(&c.PaymentInstructions, p.PaymentInstructions)
	setString(&c.SocialFacebook, p.SocialFacebook)
	setString(&c.SocialTwitter, p.SocialTwitter)
	setString(&c.SocialInstagram, p.SocialInstagram)
	setString(&c.SocialYoutube, p.SocialYoutube)
	c.UpdatedAt = time.Now()
	return nil
}

func (f *Fake) PublishCampaign(_ context.Context, id int64) error {
	return f.mutateCampaign(id, func(c *model.Campaign) error {
		if c.Status == model.CampaignArchived {
			return repo.ErrCampaignArchived
		}
		now := time.Now()
		c.Status = model.CampaignPublished
		c.IsRegistrationOpen = true
		c.PublishedAt = &now
		return nil
	})
}

func (f *Fake) SetRegistrationOpen(_ context.Context, id int64, open bool) error {
	return f.mutateCampaign(id, func(c *model.Campaign) error {
		if open && c.Status != model.CampaignPublished {
			return repo.ErrNotPublished
		}
		c.IsRegistrationOpen = open
		return nil
	})
}

func (f *Fake) CloseCampaign(_ context.Context, id int64) error {
	return f.mutateCampaign(id, func(c *model.Campaign) error {
		if c.Status == model.CampaignArchived {
			return repo.ErrCampaignArchived
		}
		c.Status = model.CampaignClosed
		c.IsRegistrationOpen = false
		return nil
	})
}

func (f *Fake) ArchiveCampaign(_ context.Context, id int64) error {
	return f.mutateCampaign(id, func(c *model.Campaign) error {
		c.Status = model.CampaignArchived
		c.IsRegistrationOpen = false
		return nil
	})
}

func (f *Fake) mutateCampaign(id int64, fn func(*model.Campaign) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	c, ok := f.campaigns[id]
	if !ok {
		return repo.ErrCampaignNotFound
	}
	cp := *c
	if err := fn(&cp); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now()
	f.campaigns[id] = &cp
	return nil
}

func (f *Fake) DeleteDraftCampaign(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	c, ok := f.campaigns[id]
	if !ok {
		return repo.ErrCampaignNotFound
	}
	if c.Status != model.CampaignDraft {
		return repo.ErrNotDraft
	}
	delete(f.campaigns, id)
	removed := map[int64]bool{}
	for rid, r := range f.registrations {
		if r.CampaignID == id {
			removed[rid] = true
			delete(f.registrations, rid)
		}
	}
	for iid, img := range f.images {
		if img.CampaignID == id {
			delete(f.images, iid)
		}
	}
	kept := f.tracking[:0]
	for _, t := range f.tracking {
		if !removed[t.RegistrationID] {
			kept = append(kept, t)
		}
	}
	f.tracking = kept
	return nil
}

func (f *Fake) CreateRegistration(_ context.Context, nr *model.NewRegistration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	if _, ok := f.campaigns[nr.CampaignID]; !ok {
		return 0, repo.ErrCampaignNotFound
	}
	for _, r := range f.registrations {
		if r.CampaignID == nr.CampaignID && r.Email == nr.Email {
			return 0, repo.ErrDuplicateRegistration
		}
	}
	dob, _ := time.Parse("2006-01-02", nr.DOB)
	reg := &model.CampaignRegistration{
		ID:                 f.id(),
		CampaignID:         nr.CampaignID,
		FirstName:          nr.FirstName,
		MiddleName:         nr.MiddleName,
		LastName:           nr.LastName,
		Email:              nr.Email,
		Phone:              nr.Phone,
		AltPhone:           nr.AltPhone,
		Gender:             nr.Gender,
		DOB:                dob,
		MaritalStatus:      nr.MaritalStatus,
		City:               nr.City,
		Address:            nr.Address,
		Institute:          nr.Institute,
		ProfessionalStatus: nr.ProfessionalStatus,
		Workplace:          nr.Workplace,
		Attended:           nr.Attended,
		Expectations:       nr.Expectations,
		HearAbout:          nr.HearAbout,
		Status:             model.ApprovalPending,
		PaymentStatus:      model.PaymentUnpaid,
		CreatedAt:          time.Now(),
	}
	f.registrations[reg.ID] = reg
	return reg.ID, nil
}

func (f *Fake) GetRegistrationByID(_ context.Context, id int64) (*model.CampaignRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	r, ok := f.registrations[id]
	if !ok {
		return nil, repo.ErrRegistrationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *Fake) ListRegistrations(_ context.Context, campaignID int64, flt model.RegistrationFilter) ([]model.CampaignRegistration, error) {
	search := strings.ToLower(strings.TrimSpace(flt.Search))
	return f.filterRegistrations(func(r *model.CampaignRegistration) bool {
		if r.CampaignID != campaignID {
			return false
		}
		if flt.Status != "" && r.Status != flt.Status {
			return false
		}
		if flt.PaymentStatus != "" && r.PaymentStatus != flt.PaymentStatus {
			return false
		}
		if search == "" {
			return true
		}
		for _, field := range []string{r.FirstName, r.LastName, r.Email, r.Phone} {
			if strings.Contains(strings.ToLower(field), search) {
				return true
			}
		}
		return false
	}, true)
}

func (f *Fake) ListUnpaidRegistrations(_ context.Context, campaignID int64) ([]model.CampaignRegistration, error) {
	return f.filterRegistrations(func(r *model.CampaignRegistration) bool {
		return r.CampaignID == campaignID && r.PaymentStatus == model.PaymentUnpaid
	}, false)
}

func (f *Fake) filterRegistrations(keep func(*model.CampaignRegistration) bool, newestFirst bool) ([]model.CampaignRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := []model.CampaignRegistration{}
	for _, r := range f.registrations {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Fake) RegistrationStats(_ context.Context, campaignID int64) (*model.RegistrationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var s model.RegistrationStats
	for _, r := range f.registrations {
		if r.CampaignID != campaignID {
			continue
		}
		s.Total++
		switch r.Status {
		case model.ApprovalPending:
			s.Pending++
		case model.ApprovalApproved:
			s.Approved++
		case model.ApprovalRejected:
			s.Rejected++
		}
		switch r.PaymentStatus {
		case model.PaymentPaid:
			s.Paid++
		case model.PaymentUnpaid:
			s.Unpaid++
		case model.PaymentRefunded:
			s.Refunded++
		}
	}
	return &s, nil
}

func (f *Fake) SetApprovalStatus(_ context.Context, ids []int64, status model.ApprovalStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	var n int64
	for _, id := range ids {
		if r, ok := f.registrations[id]; ok {
			r.Status = status
			n++
		}
	}
	return n, nil
}

func (f *Fake) SetPaymentStatus(_ context.Context, id int64, status model.PaymentStatus, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	r, ok := f.registrations[id]
	if !ok {
		return repo.ErrRegistrationNotFound
	}
	r.PaymentStatus = status
	r.PaymentReference = strings.TrimSpace(reference)
	r.PaymentDate = nil
	if status == model.PaymentPaid {
		now := time.Now()
		r.PaymentDate = &now
	}
	return nil
}

func (f *Fake) AddCampaignImage(_ context.Context, img *model.CampaignImage) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	if _, ok := f.campaigns[img.CampaignID]; !ok {
		return 0, repo.ErrCampaignNotFound
	}
	if img.ImageType == "" {
		img.ImageType = model.ImageGallery
	}
	maxOrder := 0
	for _, existing := range f.images {
		if existing.CampaignID == img.CampaignID && existing.DisplayOrder > maxOrder {
			maxOrder = existing.DisplayOrder
		}
	}
	img.ID = f.id()
	img.DisplayOrder = maxOrder + 1
	img.CreatedAt = time.Now()
	cp := *img
	f.images[cp.ID] = &cp
	return cp.ID, nil
}

func (f *Fake) ListCampaignImages(_ context.Context, campaignID int64) ([]model.CampaignImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := []model.CampaignImage{}
	for _, img := range f.images {
		if img.CampaignID == campaignID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (f *Fake) DeleteCampaignImage(_ context.Context, campaignID, imageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	img, ok := f.images[imageID]
	if !ok || img.CampaignID != campaignID {
		return repo.ErrImageNotFound
	}
	delete(f.images, imageID)
	return nil
}

func (f *Fake) TrackEmail(_ context.Context, registrationID int64, kind model.EmailKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.registrations[registrationID]; !ok {
		return errors.New("foreign key violation: registration does not exist")
	}
	f.tracking = append(f.tracking, model.EmailTracking{
		ID:             f.id(),
		RegistrationID: registrationID,
		EmailType:      kind,
		SentAt:         time.Now(),
	})
	return nil
}

func (f *Fake) ListEmailTracking(_ context.Context, registrationID int64) ([]model.EmailTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := []model.EmailTracking{}
	for i := len(f.tracking) - 1; i >= 0; i-- {
		if f.tracking[i].RegistrationID == registrationID {
			out = append(out, f.tracking[i])
		}
	}
	return out, nil
}

func (f *Fake) MigrateUp(string) error   { return nil }
func (f *Fake) MigrateDown(string) error { return nil }

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setDate(dst *time.Time, v *string) {
	if v == nil || *v == "" {
		return
	}
	if t, err := time.Parse("2006-01-02", *v); err == nil {
		*dst = t
	}
}
