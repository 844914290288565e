package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/internal/testutil"
	"go-itstock/internal/ws"
	"go-itstock/pkg/jwt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Publish(event ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	actions := make([]string, len(n.events))
	for i, e := range n.events {
		actions[i] = e.Action
	}
	return actions
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	events *recordingNotifier
	admin  Actor
	user   Actor

	inventory     InventoryService
	withdrawals   WithdrawalService
	distributions DistributionService
	returns       ReturnService
	purchases     PurchaseService
	dashboard     DashboardService
	auth          AuthService
	users         UserService
}

func newFixture(t *testing.T, unitTracking bool) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	events := &recordingNotifier{}

	productRepo := repository.NewProductRepo(db)
	withdrawalRepo := repository.NewWithdrawalRepo(db)
	returnRepo := repository.NewReturnRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	admin := testutil.SeedUser(t, db, "admin", model.RoleAdmin)
	user := testutil.SeedUser(t, db, "operator", model.RoleUser)

	return &fixture{
		ctx:    context.Background(),
		db:     db,
		events: events,
		admin:  ActorFromUser(admin),
		user:   ActorFromUser(user),

		inventory:     NewInventoryService(productRepo, activityRepo, db, events, log, unitTracking),
		withdrawals:   NewWithdrawalService(withdrawalRepo, productRepo, activityRepo, db, events, log),
		distributions: NewDistributionService(withdrawalRepo, productRepo, returnRepo, activityRepo, db, events, log),
		returns:       NewReturnService(returnRepo, productRepo, activityRepo, db, events, log),
		purchases:     NewPurchaseService(purchaseRepo, activityRepo, db, log),
		dashboard:     NewDashboardService(productRepo, withdrawalRepo, activityRepo, 1),
		auth:          NewAuthService(userRepo, activityRepo, jwt.NewSigner("test-secret", time.Hour), events, log),
		users:         NewUserService(userRepo, roleRepo, activityRepo),
	}
}

// addProduct creates a product through the inventory service, generating
// unit tags when tracking is on.
func (f *fixture) addProduct(t *testing.T, name string, quantity int, tracking bool) *model.Product {
	t.Helper()
	req := &AddProductRequest{Name: name, Quantity: quantity, Category: "Peripherals"}
	if tracking {
		for i := 1; i <= quantity; i++ {
			req.UnitTags = append(req.UnitTags, fmt.Sprintf("%s-%03d", name, i))
		}
	}
	product, err := f.inventory.AddOrRestock(f.ctx, f.user, req)
	require.NoError(t, err)
	return product
}

func (f *fixture) quantity(t *testing.T, id interface{}) int {
	t.Helper()
	var product model.Product
	require.NoError(t, f.db.First(&product, "id = ?", id).Error)
	return product.Quantity
}

func (f *fixture) count(t *testing.T, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (f *fixture) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	return f.count(t, &model.ActivityLog{}, "action = ?", action)
}
