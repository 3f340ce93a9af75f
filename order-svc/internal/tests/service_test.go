package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bakery-preorder/notify"
	"bakery-preorder/order-svc/internal/cart"
	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/mocks"
	"bakery-preorder/order-svc/internal/service"
	"bakery-preorder/order-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday 2026-10-14, mid-morning.
var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func newCatalog(t *testing.T) *service.CatalogService {
	t.Helper()
	catalog, err := service.NewCatalogServiceFromItems(storage.DefaultMenu())
	require.NoError(t, err)
	return catalog
}

func newCart(t *testing.T, catalog *service.CatalogService, ids ...string) *cart.Cart {
	t.Helper()
	c := cart.New(catalog, nil)
	for _, id := range ids {
		item, ok := catalog.Lookup(id)
		require.True(t, ok, id)
		_, err := c.AddItem(item)
		require.NoError(t, err)
	}
	return c
}

func validForm() domain.OrderForm {
	return domain.OrderForm{
		Name:               "Jane Doe",
		Email:              "jane@example.com",
		Phone:              "5551234567",
		InStockPickup:      domain.PickupSelection{Date: "2026-10-16", Time: "2:00 PM"},
		MadeToOrderPickup:  domain.PickupSelection{Date: "2026-10-15", Time: "9:00 AM"},
		ReminderPreference: domain.RemindByEmail,
	}
}

type submitterDeps struct {
	email     *mocks.EmailSender
	sms       *mocks.SMSSender
	publisher *mocks.EventPublisher
	qr        *mocks.QRGenerator
}

func newSubmitter(t *testing.T) (*service.OrderSubmitter, submitterDeps) {
	deps := submitterDeps{
		email:     mocks.NewEmailSender(t),
		sms:       mocks.NewSMSSender(t),
		publisher: mocks.NewEventPublisher(t),
		qr:        mocks.NewQRGenerator(t),
	}
	s := service.NewOrderSubmitter(deps.email, deps.sms, deps.publisher, deps.qr, service.SubmitterConfig{
		OrderTemplateID:    "order-tpl",
		ReminderTemplateID: "reminder-tpl",
		BusinessName:       "Jilicious Treats",
		Location:           time.UTC,
		NotifyTimeout:      time.Second,
	})
	s.Now = func() time.Time { return fixedNow }
	s.NewReference = func() string { return "BK-0000ABCD" }
	return s, deps
}

func templateIs(id string) interface{} {
	return mock.MatchedBy(func(msg notify.Email) bool { return msg.TemplateID == id })
}

func TestCatalogService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		items   []domain.MenuItem
		wantErr bool
	}{
		{
			name:  "default menu",
			items: storage.DefaultMenu(),
		},
		{
			name:    "missing id",
			items:   []domain.MenuItem{{Name: "Nameless", Price: decimal.NewFromInt(1)}},
			wantErr: true,
		},
		{
			name:    "negative price",
			items:   []domain.MenuItem{{ID: "a", Price: decimal.NewFromInt(-1)}},
			wantErr: true,
		},
		{
			name:    "negative stock",
			items:   []domain.MenuItem{{ID: "a", Stock: -2}},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			items:   []domain.MenuItem{{ID: "a"}, {ID: "a"}},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.NewCatalogServiceFromItems(testCase.items)
			if testCase.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidCatalog)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogService_LoadFromSource(t *testing.T) {
	source := mocks.NewCatalogSource(t)
	source.On("LoadMenu", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := service.NewCatalogService(context.Background(), source)
	assert.ErrorContains(t, err, "connection refused")
}

func TestCatalogService_List(t *testing.T) {
	catalog := newCatalog(t)

	all := catalog.List(service.CatalogFilter{IncludeUnavailable: true})
	assert.Len(t, all, len(storage.DefaultMenu()))

	breads := catalog.List(service.CatalogFilter{Category: "breads"})
	require.NotEmpty(t, breads)
	for _, item := range breads {
		assert.Equal(t, "Breads", item.Category)
		assert.True(t, item.MadeToOrder)
	}

	for _, item := range catalog.List(service.CatalogFilter{Vegan: true}) {
		assert.True(t, item.DietaryInfo.Vegan, item.ID)
	}

	assert.Equal(t, []string{"Breads", "Pastries", "Cakes"}, catalog.Categories())

	_, err := catalog.Get("croquembouche")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestOrderSubmitter_EmptyCartTouchesNothing(t *testing.T) {
	submitter, _ := newSubmitter(t)
	catalog := newCatalog(t)

	result, err := submitter.Submit(context.Background(), cart.New(catalog, nil), validForm())

	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Equal(t, service.StateIdle, result.State)
	assert.Equal(t, domain.NoticeError, result.Notice.Level)
}

func TestOrderSubmitter_Validation(t *testing.T) {
	catalog := newCatalog(t)

	tests := []struct {
		name       string
		items      []string
		edit       func(f *domain.OrderForm)
		wantFields []string
	}{
		{
			name:       "missing in stock date",
			items:      []string{"chocolate-chip-cookies"},
			edit:       func(f *domain.OrderForm) { f.InStockPickup.Date = "" },
			wantFields: []string{"in_stock_pickup.date"},
		},
		{
			name:       "saturday is not an in stock day",
			items:      []string{"chocolate-chip-cookies"},
			edit:       func(f *domain.OrderForm) { f.InStockPickup.Date = "2026-10-17" },
			wantFields: []string{"in_stock_pickup.date"},
		},
		{
			name:       "made to order slot outside window",
			items:      []string{"sourdough-bread"},
			edit:       func(f *domain.OrderForm) { f.MadeToOrderPickup.Time = "7:00 PM" },
			wantFields: []string{"made_to_order_pickup.time"},
		},
		{
			name:       "today is too soon",
			items:      []string{"sourdough-bread"},
			edit:       func(f *domain.OrderForm) { f.MadeToOrderPickup.Date = "2026-10-14" },
			wantFields: []string{"made_to_order_pickup.date"},
		},
		{
			name:  "contact fields",
			items: []string{"chocolate-chip-cookies"},
			edit: func(f *domain.OrderForm) {
				f.Name = "J"
				f.Email = "not-an-email"
				f.Phone = "555"
			},
			wantFields: []string{"name", "email", "phone"},
		},
		{
			name:       "unknown reminder preference",
			items:      []string{"chocolate-chip-cookies"},
			edit:       func(f *domain.OrderForm) { f.ReminderPreference = "pigeon" },
			wantFields: []string{"reminder_preference"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			submitter, _ := newSubmitter(t)
			form := validForm()
			testCase.edit(&form)

			result, err := submitter.Submit(context.Background(), newCart(t, catalog, testCase.items...), form)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			for _, field := range testCase.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
			assert.Len(t, verr.Fields, len(testCase.wantFields))
			assert.Equal(t, service.StateIdle, result.State)
		})
	}
}

func TestOrderSubmitter_IgnoresPickupForAbsentMode(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.MadeToOrderPickup = domain.PickupSelection{Date: "2026-10-18", Time: "7:00 AM"}
	form.ReminderPreference = domain.RemindNever

	deps.qr.On("Generate", "BK-0000ABCD").Return([]byte("png"), nil).Once()
	deps.email.On("SendEmail", mock.Anything, templateIs("order-tpl")).Return("email-1", nil).Once()
	deps.publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := submitter.Submit(context.Background(), newCart(t, catalog, "chocolate-chip-cookies"), form)

	require.NoError(t, err)
	assert.Equal(t, service.StateSucceeded, result.State)
	assert.Nil(t, result.Summary.MadeToOrderPickup)
	assert.Nil(t, result.Summary.ReminderAt)
	require.Len(t, result.Dispatches, 1)
}

func TestOrderSubmitter_SMSReminder(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.ReminderPreference = domain.RemindBySMS
	// Made-to-order Thursday 9:00 AM is earlier than the in-stock Friday slot.
	wantReminder := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

	deps.qr.On("Generate", "BK-0000ABCD").Return([]byte("png"), nil).Once()
	deps.email.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg notify.Email) bool {
		return msg.TemplateID == "order-tpl" &&
			msg.To == "jane@example.com" &&
			msg.SendAt.IsZero() &&
			msg.Params["order_reference"] == "BK-0000ABCD" &&
			msg.Params["total_amount"] == "$15.50" &&
			msg.Params["pickup_time"] == "9:00 AM" &&
			msg.Params["special_instructions"] == "None" &&
			msg.Params["pickup_qr"] == "data:image/png;base64,cG5n"
	})).Return("email-1", nil).Once()
	deps.sms.On("SendSMS", mock.Anything, mock.MatchedBy(func(msg notify.SMS) bool {
		return msg.To == "5551234567" && msg.SendAt.Equal(wantReminder)
	})).Return("SM123", nil).Once()
	deps.publisher.On("PublishOrder", mock.Anything, mock.MatchedBy(func(event domain.OrderEvent) bool {
		return event.Type == domain.OrderPlacedEvent && event.Reference == "BK-0000ABCD" && len(event.Items) == 2
	})).Return(nil).Once()

	c := newCart(t, catalog, "chocolate-chip-cookies", "chocolate-chip-cookies", "sourdough-bread")
	result, err := submitter.Submit(context.Background(), c, form)

	require.NoError(t, err)
	assert.Equal(t, service.StateSucceeded, result.State)
	assert.Equal(t, "Order received!", result.Notice.Title)
	require.NotNil(t, result.Summary.ReminderAt)
	assert.True(t, result.Summary.ReminderAt.Equal(wantReminder))
	assert.Equal(t, []service.Dispatch{
		{Step: "confirmation", Channel: notify.ChannelEmail, ID: "email-1"},
		{Step: "reminder", Channel: notify.ChannelSMS, ID: "SM123"},
	}, result.Dispatches)
	deps.email.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestOrderSubmitter_BothReminders(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.ReminderPreference = domain.RemindByBoth

	deps.qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	deps.email.On("SendEmail", mock.Anything, templateIs("order-tpl")).Return("email-1", nil).Once()
	deps.email.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg notify.Email) bool {
		return msg.TemplateID == "reminder-tpl" && !msg.SendAt.IsZero()
	})).Return("email-2", nil).Once()
	deps.sms.On("SendSMS", mock.Anything, mock.Anything).Return("SM1", nil).Once()
	deps.publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := submitter.Submit(context.Background(), newCart(t, catalog, "sourdough-bread"), form)

	require.NoError(t, err)
	assert.Len(t, result.Dispatches, 3)
}

func TestOrderSubmitter_ConfirmationFailure(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.ReminderPreference = domain.RemindBySMS

	deps.qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	deps.email.On("SendEmail", mock.Anything, mock.Anything).Return("", errors.New("emailjs: 400 The template ID is invalid")).Once()

	result, err := submitter.Submit(context.Background(), newCart(t, catalog, "sourdough-bread"), form)

	assert.ErrorIs(t, err, service.ErrDispatchFailed)
	var derr *service.DispatchError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "confirmation email", derr.Step)
	assert.Equal(t, service.StateFailed, result.State)
	assert.Equal(t, service.GenericFailureMessage, result.Notice.Message)
	assert.NotContains(t, result.Notice.Message, "template")
	assert.Nil(t, result.Summary)
}

func TestOrderSubmitter_ReminderFailure(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.ReminderPreference = domain.RemindBySMS

	deps.qr.On("Generate", mock.Anything).Return(nil, errors.New("qr failed")).Once()
	deps.email.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg notify.Email) bool {
		_, hasQR := msg.Params["pickup_qr"]
		return !hasQR
	})).Return("email-1", nil).Once()
	deps.sms.On("SendSMS", mock.Anything, mock.Anything).Return("", notify.ErrSMSNotConfigured).Once()

	result, err := submitter.Submit(context.Background(), newCart(t, catalog, "sourdough-bread"), form)

	assert.ErrorIs(t, err, service.ErrDispatchFailed)
	assert.True(t, service.IsConfigError(err))
	assert.Equal(t, service.StateFailed, result.State)
}

func TestOrderSubmitter_FailedAttemptLeavesNoQueuedReminders(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	queue := notify.NewReminderQueue(client)

	email := mocks.NewEmailSender(t)
	email.On("SendEmail", mock.Anything, templateIs("order-tpl")).Return("email-1", nil).Twice()
	qr := mocks.NewQRGenerator(t)
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Twice()
	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Once()

	deferredEmail := notify.NewDeferredEmailSender(email, queue)
	deferredEmail.Now = func() time.Time { return fixedNow }

	newAttempt := func(sms notify.SMSSender) *service.OrderSubmitter {
		deferredSMS := notify.NewDeferredSMSSender(sms, queue)
		deferredSMS.Now = func() time.Time { return fixedNow }
		s := service.NewOrderSubmitter(deferredEmail, deferredSMS, publisher, qr, service.SubmitterConfig{
			OrderTemplateID:    "order-tpl",
			ReminderTemplateID: "reminder-tpl",
			Location:           time.UTC,
			NotifyTimeout:      time.Second,
		})
		s.Now = func() time.Time { return fixedNow }
		return s
	}

	form := validForm()
	form.ReminderPreference = domain.RemindByBoth
	catalog := newCatalog(t)

	// Friday 2:00 PM pickup puts both reminders on Thursday, after fixedNow.
	result, err := newAttempt(notify.NewTwilioSender("", "", "")).Submit(ctx, newCart(t, catalog, "banana-bread"), form)

	require.ErrorIs(t, err, service.ErrDispatchFailed)
	assert.True(t, service.IsConfigError(err))
	assert.Equal(t, service.StateFailed, result.State)
	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	sms := mocks.NewSMSSender(t)
	result, err = newAttempt(sms).Submit(ctx, newCart(t, catalog, "banana-bread"), form)

	require.NoError(t, err)
	assert.Equal(t, service.StateSucceeded, result.State)
	n, err = queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestOrderSubmitter_PublishFailureIsNotFatal(t *testing.T) {
	submitter, deps := newSubmitter(t)
	catalog := newCatalog(t)

	form := validForm()
	form.ReminderPreference = domain.RemindNever

	deps.qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	deps.email.On("SendEmail", mock.Anything, mock.Anything).Return("email-1", nil).Once()
	deps.publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := submitter.Submit(context.Background(), newCart(t, catalog, "banana-bread"), form)

	require.NoError(t, err)
	assert.Equal(t, service.StateSucceeded, result.State)
	assert.Equal(t, "6", result.Summary.Total.String())
}

type stubSubmitter struct {
	started chan struct{}
	release chan struct{}
	result  *service.SubmitResult
	err     error
	calls   int
}

func (s *stubSubmitter) Submit(ctx context.Context, c *cart.Cart, form domain.OrderForm) (*service.SubmitResult, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.result, s.err
}

func newSessionService(t *testing.T, submitter service.OrderSubmitterInterface) *service.SessionService {
	svc := service.NewSessionService(storage.NewMemorySessionStore(time.Hour), newCatalog(t), submitter, service.SessionConfig{Location: time.UTC})
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestSessionService_Create(t *testing.T) {
	tests := []struct {
		name       string
		preselect  string
		wantLines  int
		wantNotice string
	}{
		{name: "empty", preselect: "", wantLines: 0},
		{name: "preselected item", preselect: "banana-bread", wantLines: 1, wantNotice: domain.NoticeSuccess},
		{name: "unknown item is ignored", preselect: "croquembouche", wantLines: 0},
		{name: "out of stock item warns", preselect: "cinnamon-roll", wantLines: 0, wantNotice: domain.NoticeWarning},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc := newSessionService(t, &stubSubmitter{})

			view, notice, err := svc.Create(context.Background(), testCase.preselect)

			require.NoError(t, err)
			assert.NotEmpty(t, view.SessionID)
			assert.Len(t, view.Lines, testCase.wantLines)
			assert.Equal(t, domain.RemindByEmail, view.Form.ReminderPreference)
			if testCase.wantNotice == "" {
				assert.Nil(t, notice)
			} else {
				require.NotNil(t, notice)
				assert.Equal(t, testCase.wantNotice, notice.Level)
			}
		})
	}
}

func TestSessionService_CartOperations(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t, &stubSubmitter{})

	view, _, err := svc.Create(ctx, "")
	require.NoError(t, err)
	id := view.SessionID

	_, _, err = svc.AddItem(ctx, id, "banana-bread")
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, id, "banana-bread")
	require.NoError(t, err)

	view, notice, err := svc.AddItem(ctx, id, "banana-bread")
	assert.ErrorIs(t, err, cart.ErrStockLimit)
	assert.Equal(t, domain.NoticeWarning, notice.Level)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	_, _, err = svc.AddItem(ctx, id, "croquembouche")
	assert.ErrorIs(t, err, service.ErrItemNotFound)

	view, _, err = svc.AddItem(ctx, id, "sourdough-bread")
	require.NoError(t, err)
	assert.Equal(t, "20.5", view.Total.String())
	assert.Equal(t, 1, view.InStockCount)
	assert.Equal(t, 1, view.MadeToOrderCount)

	view, _, err = svc.SetQuantity(ctx, id, "sourdough-bread", 3)
	require.NoError(t, err)
	assert.Equal(t, "37.5", view.Total.String())

	_, _, err = svc.SetQuantity(ctx, id, "banana-bread", 5)
	assert.ErrorIs(t, err, cart.ErrStockLimit)

	view, err = svc.RemoveItem(ctx, id, "banana-bread")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)

	windows, err := svc.PickupWindows(ctx, id)
	require.NoError(t, err)
	require.Len(t, windows.Windows, 1)
	assert.Equal(t, domain.MadeToOrder, windows.Windows[0].Mode)

	view, err = svc.Clear(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_SaveForm(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t, &stubSubmitter{})
	view, _, err := svc.Create(ctx, "")
	require.NoError(t, err)

	form := validForm()
	form.ReminderPreference = ""
	view, err = svc.SaveForm(ctx, view.SessionID, form)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", view.Form.Name)
	assert.Equal(t, domain.RemindByEmail, view.Form.ReminderPreference)
}

func TestSessionService_SubmitSuccessResetsSession(t *testing.T) {
	ctx := context.Background()
	stub := &stubSubmitter{result: &service.SubmitResult{State: service.StateSucceeded}}
	svc := newSessionService(t, stub)

	view, _, err := svc.Create(ctx, "sourdough-bread")
	require.NoError(t, err)
	form := validForm()

	result, err := svc.Submit(ctx, view.SessionID, &form)
	require.NoError(t, err)
	assert.Equal(t, service.StateSucceeded, result.State)

	view, err = svc.Get(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, domain.DefaultOrderForm(), view.Form)
}

func TestSessionService_SubmitFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	stub := &stubSubmitter{
		result: &service.SubmitResult{State: service.StateFailed},
		err:    &service.DispatchError{Step: "confirmation email", Err: errors.New("timeout")},
	}
	svc := newSessionService(t, stub)

	view, _, err := svc.Create(ctx, "sourdough-bread")
	require.NoError(t, err)
	form := validForm()

	_, err = svc.Submit(ctx, view.SessionID, &form)
	assert.ErrorIs(t, err, service.ErrDispatchFailed)

	view, err = svc.Get(ctx, view.SessionID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Jane Doe", view.Form.Name)
	assert.False(t, view.Submitting)
}

func TestSessionService_SubmissionInFlight(t *testing.T) {
	ctx := context.Background()
	stub := &stubSubmitter{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  &service.SubmitResult{State: service.StateSucceeded},
	}
	svc := newSessionService(t, stub)

	view, _, err := svc.Create(ctx, "sourdough-bread")
	require.NoError(t, err)
	id := view.SessionID

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, id, nil)
		done <- err
	}()
	<-stub.started

	_, err = svc.Submit(ctx, id, nil)
	assert.ErrorIs(t, err, service.ErrSubmissionInProgress)
	_, _, err = svc.AddItem(ctx, id, "banana-bread")
	assert.ErrorIs(t, err, service.ErrSubmissionInProgress)
	_, err = svc.Clear(ctx, id)
	assert.ErrorIs(t, err, service.ErrSubmissionInProgress)
	assert.ErrorIs(t, svc.Delete(ctx, id), service.ErrSubmissionInProgress)

	view, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Submitting)

	close(stub.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, stub.calls)

	view, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.Submitting)
	assert.Empty(t, view.Lines)
}

func TestSessionService_SubmitUnknownSession(t *testing.T) {
	svc := newSessionService(t, &stubSubmitter{})
	_, err := svc.Submit(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestInquiryService(t *testing.T) {
	tests := []struct {
		name      string
		submit    func(svc *service.InquiryService) (domain.Notice, error)
		setupMock func(m *mocks.EmailSender)
		wantTitle string
		wantErr   error
	}{
		{
			name: "bulk order",
			submit: func(svc *service.InquiryService) (domain.Notice, error) {
				return svc.SubmitBulkOrder(context.Background(), domain.BulkOrderInquiry{
					Name: "Sam Rivera", Email: "sam@example.com", Phone: "5559876543",
					Quantity: "40", Items: "Sourdough loaves",
				})
			},
			setupMock: func(m *mocks.EmailSender) {
				m.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg notify.Email) bool {
					return msg.TemplateID == "bulk-tpl" && msg.To == "owner@example.com" &&
						msg.Params["company"] == "Not specified" && msg.Params["special_requirements"] == "None"
				})).Return("id", nil).Once()
			},
			wantTitle: "Inquiry Received!",
		},
		{
			name: "bulk order missing items",
			submit: func(svc *service.InquiryService) (domain.Notice, error) {
				return svc.SubmitBulkOrder(context.Background(), domain.BulkOrderInquiry{
					Name: "Sam Rivera", Email: "sam@example.com", Phone: "5559876543", Quantity: "40",
				})
			},
			setupMock: func(m *mocks.EmailSender) {},
			wantTitle: "Check your details",
			wantErr:   &service.ValidationError{},
		},
		{
			name: "contact message",
			submit: func(svc *service.InquiryService) (domain.Notice, error) {
				return svc.SubmitContact(context.Background(), domain.ContactMessage{
					Name: "Sam Rivera", Email: "sam@example.com", Message: "Do you make rye bread?",
				})
			},
			setupMock: func(m *mocks.EmailSender) {
				m.On("SendEmail", mock.Anything, templateIs("contact-tpl")).Return("id", nil).Once()
			},
			wantTitle: "Message sent!",
		},
		{
			name: "contact provider failure",
			submit: func(svc *service.InquiryService) (domain.Notice, error) {
				return svc.SubmitContact(context.Background(), domain.ContactMessage{
					Name: "Sam Rivera", Email: "sam@example.com", Message: "Do you make rye bread?",
				})
			},
			setupMock: func(m *mocks.EmailSender) {
				m.On("SendEmail", mock.Anything, mock.Anything).Return("", errors.New("503")).Once()
			},
			wantTitle: "Error",
			wantErr:   service.ErrDispatchFailed,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			email := mocks.NewEmailSender(t)
			testCase.setupMock(email)
			svc := service.NewInquiryService(email, service.InquiryConfig{
				OwnerEmail:          "owner@example.com",
				BulkOrderTemplateID: "bulk-tpl",
				ContactTemplateID:   "contact-tpl",
			})

			notice, err := testCase.submit(svc)

			assert.Equal(t, testCase.wantTitle, notice.Title)
			switch want := testCase.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *service.ValidationError:
				assert.ErrorAs(t, err, &want)
			default:
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestContentService_FAQ(t *testing.T) {
	faq := service.NewContentService().FAQ()
	require.NotEmpty(t, faq)

	var mentionsDeadline bool
	for _, entry := range faq {
		assert.NotEmpty(t, entry.Question)
		assert.NotEmpty(t, entry.Answer)
		if strings.Contains(entry.Answer, "Wednesday 6pm") {
			mentionsDeadline = true
		}
	}
	assert.True(t, mentionsDeadline)
}

func TestQRCode(t *testing.T) {
	gen := service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}
	png, err := gen.Generate("BK-0000ABCD")

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
	assert.True(t, service.ValidReference("BK-0000ABCD"))
	assert.False(t, service.ValidReference("bk-0000abcd"))
	assert.False(t, service.ValidReference("BK-123"))
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, service.NewReference())
}
