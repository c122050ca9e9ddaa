package documents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/services/signing"
	"github.com/fortiva/propflow/internal/storage"
)

// fakeGateway records calls and returns canned results per operation.
type fakeGateway struct {
	generateCalls []string
	approveCalls  []string
	statusCalls   []string

	generateResult signing.Result
	approveResult  signing.Result
	statusResult   signing.Result
	statusReply    *signing.StatusResponse
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		generateResult: signing.Result{OK: true, StatusCode: 200},
		approveResult:  signing.Result{OK: true, StatusCode: 200},
		statusResult:   signing.Result{OK: true, StatusCode: 200},
		statusReply:    &signing.StatusResponse{},
	}
}

func (f *fakeGateway) CreateTemplate(context.Context, *models.Template) signing.Result {
	return signing.Result{OK: true}
}

func (f *fakeGateway) GenerateDocument(_ context.Context, doc *models.Document) signing.Result {
	f.generateCalls = append(f.generateCalls, doc.ID)
	return f.generateResult
}

func (f *fakeGateway) ApproveSigning(_ context.Context, documentID string) signing.Result {
	f.approveCalls = append(f.approveCalls, documentID)
	return f.approveResult
}

func (f *fakeGateway) SignStatus(_ context.Context, documentID string) (*signing.StatusResponse, signing.Result) {
	f.statusCalls = append(f.statusCalls, documentID)
	if !f.statusResult.OK {
		return nil, f.statusResult
	}
	return f.statusReply, f.statusResult
}

type capturedEvent struct {
	documentID string
	status     string
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) PublishStatus(documentID, status string) {
	f.events = append(f.events, capturedEvent{documentID, status})
}

func setup(t *testing.T) (*Service, *storage.MemoryStore, *fakeGateway, *fakePublisher, *models.Template) {
	t.Helper()
	store := storage.NewMemoryStore()
	gateway := newFakeGateway()
	events := &fakePublisher{}
	svc := NewService(store, gateway, events)

	tpl := &models.Template{
		Name:         "Sale Agreement",
		DocumentType: "Sales Contract",
		Content:      "<p>{{buyerName}} buys from {{sellerName}}</p>",
	}
	require.NoError(t, store.CreateTemplate(context.Background(), tpl))
	return svc, store, gateway, events, tpl
}

func TestCreateForcesPendingStatus(t *testing.T) {
	svc, _, _, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{"buyerName": "Jane"}, "agent@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPending, doc.Status)
	assert.Equal(t, 1, doc.Version)
	require.NotNil(t, doc.Template)
	assert.Equal(t, tpl.ID, doc.Template.ID)
}

func TestCreateNormalizesMetadataOnce(t *testing.T) {
	svc, _, _, _, tpl := setup(t)
	ctx := context.Background()

	meta := models.JSONB{
		"seller": map[string]interface{}{"name": "Jane Smith"},
		"buyer":  map[string]interface{}{"name": "John Doe"},
	}
	doc, err := svc.Create(ctx, tpl.ID, meta, "agent@example.com", nil)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(doc.Fields, &fields))
	assert.Equal(t, "Jane Smith", fields["sellerName"])
	assert.Equal(t, "John Doe", fields["buyerName"])
	// createdAt-derived defaults are materialized at creation
	assert.NotEmpty(t, fields["agreementYear"])
}

func TestCreateUnknownTemplate(t *testing.T) {
	svc, store, gateway, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "missing-template", models.JSONB{}, "agent@example.com", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, gateway.generateCalls)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCreateNotifiesGatewayAndRecordsTransaction(t *testing.T) {
	svc, store, gateway, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)

	require.Len(t, gateway.generateCalls, 1)
	assert.Equal(t, doc.ID, gateway.generateCalls[0])

	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionStatusSuccess, txs[0].Status)
	require.NotNil(t, txs[0].DocumentID)
	assert.Equal(t, doc.ID, *txs[0].DocumentID)
}

func TestCreateSurvivesGatewayFailure(t *testing.T) {
	svc, store, gateway, _, tpl := setup(t)
	gateway.generateResult = signing.Result{StatusCode: 500, Err: errors.New("gateway returned 500")}
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPending, doc.Status)

	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionStatusFailed, txs[0].Status)
}

func TestCreateAppendsCreatedAudit(t *testing.T) {
	svc, store, _, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", models.JSONB{"ip": "10.0.0.1"})
	require.NoError(t, err)

	logs, err := store.ListAuditLogs(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "created", logs[0].Action)
	assert.Equal(t, "agent@example.com", logs[0].Actor)
	assert.Equal(t, "10.0.0.1", logs[0].Metadata["ip"])
}

func TestApprove(t *testing.T) {
	svc, store, gateway, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, doc.ID, "agent@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusApproved, approved.Status)

	require.Len(t, gateway.approveCalls, 1)
	assert.Equal(t, doc.ID, gateway.approveCalls[0])

	logs, err := store.ListAuditLogs(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "approved", logs[1].Action)
	assert.Equal(t, "agent@example.com", logs[1].Actor)
}

func TestApproveUnknownDocument(t *testing.T) {
	svc, store, gateway, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Approve(ctx, "missing", "agent@example.com", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, gateway.approveCalls)

	logs, err := store.ListAuditLogs(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCheckStatusGatewayFailureKeepsDocument(t *testing.T) {
	svc, _, gateway, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)

	gateway.statusResult = signing.Result{Err: errors.New("connection refused")}
	got, err := svc.CheckStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPending, got.Status)
}

func TestCheckStatusAppliesGatewayStatus(t *testing.T) {
	svc, store, gateway, events, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, doc.ID, "agent@example.com", nil)
	require.NoError(t, err)

	gateway.statusReply = &signing.StatusResponse{Status: models.DocumentStatusSigned}
	got, err := svc.CheckStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSigned, got.Status)

	stored, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSigned, stored.Status)

	last := events.events[len(events.events)-1]
	assert.Equal(t, capturedEvent{doc.ID, models.DocumentStatusSigned}, last)
}

func TestCheckStatusSameStatusNoWrite(t *testing.T) {
	svc, store, gateway, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)

	gateway.statusReply = &signing.StatusResponse{Status: models.DocumentStatusPending}
	got, err := svc.CheckStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Version, got.Version)

	logs, err := store.ListAuditLogs(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1) // only "created"
}

func TestStatusCallbackOverwritesUnchecked(t *testing.T) {
	svc, store, _, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)

	// Straight pending -> signed, no approval in between.
	got, err := svc.ApplyStatusCallback(ctx, doc.ID, models.DocumentStatusSigned, "n8n-99")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSigned, got.Status)

	stored, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.N8nSigningID)
	assert.Equal(t, "n8n-99", *stored.N8nSigningID)

	logs, err := store.ListAuditLogs(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "status_change_to_signed", logs[1].Action)
	assert.Equal(t, models.ActorSystem, logs[1].Actor)
	assert.Equal(t, "n8n-99", logs[1].Metadata["n8nId"])
}

func TestStatusCallbackUnknownDocument(t *testing.T) {
	svc, _, _, _, _ := setup(t)

	_, err := svc.ApplyStatusCallback(context.Background(), "missing", models.DocumentStatusSigned, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLifecycleAuditTrailOrder(t *testing.T) {
	svc, store, _, _, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, doc.ID, "agent@example.com", nil)
	require.NoError(t, err)
	_, err = svc.ApplyStatusCallback(ctx, doc.ID, models.DocumentStatusSigned, "n8n-1")
	require.NoError(t, err)

	logs, err := store.ListAuditLogs(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "created", logs[0].Action)
	assert.Equal(t, "approved", logs[1].Action)
	assert.Equal(t, "status_change_to_signed", logs[2].Action)

	stored, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSigned, stored.Status)
	assert.Equal(t, 3, stored.Version)
}

func TestPublishesStatusEvents(t *testing.T) {
	svc, _, _, events, tpl := setup(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, tpl.ID, models.JSONB{}, "agent@example.com", nil)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, doc.ID, "agent@example.com", nil)
	require.NoError(t, err)

	require.Len(t, events.events, 2)
	assert.Equal(t, capturedEvent{doc.ID, models.DocumentStatusPending}, events.events[0])
	assert.Equal(t, capturedEvent{doc.ID, models.DocumentStatusApproved}, events.events[1])
}
