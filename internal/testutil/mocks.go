// Package testutil provides in-memory DAO and chain fakes for logic and
// handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"tempo/internal/model"
)

// MockWormholeTransactionsDao is an in-memory model.WormholeTransactionsDao.
// Err, when set, is returned by every method.
type MockWormholeTransactionsDao struct {
	mu   sync.Mutex
	rows map[string]*model.WormholeTransactions // by id
	Err  error
	// UpdateErrFor fails UpdateStatus for one row id.
	UpdateErrFor string
	Updates      []model.StatusUpdate
}

func NewMockWormholeTransactionsDao(rows ...*model.WormholeTransactions) *MockWormholeTransactionsDao {
	m := &MockWormholeTransactionsDao{rows: make(map[string]*model.WormholeTransactions)}
	for _, r := range rows {
		m.rows[r.Id] = r
	}
	return m
}

func (m *MockWormholeTransactionsDao) Insert(_ context.Context, data *model.WormholeTransactions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, r := range m.rows {
		if r.TxHash == data.TxHash {
			return model.ErrDuplicate
		}
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	cp := *data
	m.rows[data.Id] = &cp
	return nil
}

func (m *MockWormholeTransactionsDao) FindOneByTxHash(_ context.Context, txHash string) (*model.WormholeTransactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.rows {
		if r.TxHash == txHash {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *MockWormholeTransactionsDao) FindByUser(_ context.Context, userId string, limit int) ([]*model.WormholeTransactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []*model.WormholeTransactions
	for _, r := range m.rows {
		if r.UserId == userId {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockWormholeTransactionsDao) FindByStatus(_ context.Context, statuses []string, limit int) ([]*model.WormholeTransactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var list []*model.WormholeTransactions
	for _, r := range m.rows {
		if want[r.Status] {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Id < list[j].Id })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockWormholeTransactionsDao) UpdateStatus(_ context.Context, id string, update model.StatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if id == m.UpdateErrFor {
		return context.DeadlineExceeded
	}
	r, ok := m.rows[id]
	if !ok {
		return nil
	}
	m.Updates = append(m.Updates, update)
	r.Status = update.Status
	checked := update.CheckedAt
	r.LastCheckedAt = &checked
	if update.OperationId != "" {
		r.OperationId = update.OperationId
	}
	if update.Vaa != "" {
		r.Vaa = update.Vaa
	}
	if update.TargetTxHash != "" {
		r.TargetTxHash = update.TargetTxHash
	}
	if update.CompletedAt != nil {
		r.CompletedAt = update.CompletedAt
	}
	return nil
}

// Get returns a copy of the row with id, or nil.
func (m *MockWormholeTransactionsDao) Get(id string) *model.WormholeTransactions {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

func (m *MockWormholeTransactionsDao) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// MockDeviceRegistryDao is an in-memory model.DeviceRegistryDao.
type MockDeviceRegistryDao struct {
	mu   sync.Mutex
	rows map[string]*model.DeviceRegistry // by id
	Err  error
	// Rewards receives rows from RecordMetric.
	Rewards *MockDepinRewardsDao
}

func NewMockDeviceRegistryDao(rows ...*model.DeviceRegistry) *MockDeviceRegistryDao {
	m := &MockDeviceRegistryDao{rows: make(map[string]*model.DeviceRegistry)}
	for _, r := range rows {
		m.rows[r.Id] = r
	}
	return m
}

func (m *MockDeviceRegistryDao) Insert(_ context.Context, data *model.DeviceRegistry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, r := range m.rows {
		if r.DeviceId == data.DeviceId {
			return model.ErrDuplicate
		}
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	cp := *data
	m.rows[data.Id] = &cp
	return nil
}

func (m *MockDeviceRegistryDao) FindOneByDeviceId(_ context.Context, deviceId string) (*model.DeviceRegistry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.rows {
		if r.DeviceId == deviceId {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *MockDeviceRegistryDao) FindByOwner(_ context.Context, ownerId string) ([]*model.DeviceRegistry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []*model.DeviceRegistry
	for _, r := range m.rows {
		if r.OwnerId == ownerId {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DeviceId < list[j].DeviceId })
	return list, nil
}

func (m *MockDeviceRegistryDao) ApplyEvent(_ context.Context, id string, event model.DeviceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.apply(id, event)
	return nil
}

// RecordMetric inserts the reward before touching the device so a failed
// insert leaves the device as it was.
func (m *MockDeviceRegistryDao) RecordMetric(ctx context.Context, id string, event model.DeviceEvent, reward *model.DepinRewards) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.Rewards != nil {
		if err := m.Rewards.Insert(ctx, reward); err != nil {
			return err
		}
	}
	m.apply(id, event)
	return nil
}

func (m *MockDeviceRegistryDao) apply(id string, event model.DeviceEvent) {
	r, ok := m.rows[id]
	if !ok {
		return
	}
	seen := event.SeenAt
	r.Status = event.Status
	r.LastSeenAt = &seen
	r.TotalKwh += event.AddKwh
	if event.UptimePct != nil {
		r.UptimePct = *event.UptimePct
	}
}

func (m *MockDeviceRegistryDao) MarkOfflineBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, r := range m.rows {
		if r.Status == "online" && r.LastSeenAt != nil && r.LastSeenAt.Before(cutoff) {
			r.Status = "offline"
			n++
		}
	}
	return n, nil
}

func (m *MockDeviceRegistryDao) Get(deviceId string) *model.DeviceRegistry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.DeviceId == deviceId {
			cp := *r
			return &cp
		}
	}
	return nil
}

// MockDepinRewardsDao is an in-memory model.DepinRewardsDao.
type MockDepinRewardsDao struct {
	mu   sync.Mutex
	Rows []*model.DepinRewards
	Err  error
}

func NewMockDepinRewardsDao(rows ...*model.DepinRewards) *MockDepinRewardsDao {
	return &MockDepinRewardsDao{Rows: rows}
}

func (m *MockDepinRewardsDao) Insert(_ context.Context, data *model.DepinRewards) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	cp := *data
	m.Rows = append(m.Rows, &cp)
	return nil
}

func (m *MockDepinRewardsDao) FindByOwner(_ context.Context, ownerId string, limit int) ([]*model.DepinRewards, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []*model.DepinRewards
	for _, r := range m.Rows {
		if r.OwnerId == ownerId {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockDepinRewardsDao) SumByOwner(_ context.Context, ownerId string) (*model.RewardTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	totals := &model.RewardTotals{}
	for _, r := range m.Rows {
		if r.OwnerId == ownerId {
			totals.Total += r.Amount
			totals.Count++
		}
	}
	return totals, nil
}

// MockWalletConnectionsDao is an in-memory model.WalletConnectionsDao keyed
// by (user, address, chain).
type MockWalletConnectionsDao struct {
	mu   sync.Mutex
	rows map[[3]string]*model.WalletConnections
	Err  error
}

func NewMockWalletConnectionsDao() *MockWalletConnectionsDao {
	return &MockWalletConnectionsDao{rows: make(map[[3]string]*model.WalletConnections)}
}

func (m *MockWalletConnectionsDao) Upsert(_ context.Context, data *model.WalletConnections) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	key := [3]string{data.UserId, data.Address, data.Chain}
	if existing, ok := m.rows[key]; ok {
		existing.WalletType = data.WalletType
		existing.IsActive = data.IsActive
		existing.ConnectedAt = data.ConnectedAt
		existing.UpdatedAt = data.UpdatedAt
		return nil
	}
	cp := *data
	m.rows[key] = &cp
	return nil
}

func (m *MockWalletConnectionsDao) Deactivate(_ context.Context, userId, address, chain string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	r, ok := m.rows[[3]string{userId, address, chain}]
	if !ok {
		return 0, nil
	}
	r.IsActive = false
	return 1, nil
}

func (m *MockWalletConnectionsDao) FindActiveByUser(_ context.Context, userId string) ([]*model.WalletConnections, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []*model.WalletConnections
	for _, r := range m.rows {
		if r.UserId == userId && r.IsActive {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ConnectedAt.After(list[j].ConnectedAt) })
	return list, nil
}

// MockProfilesDao is an in-memory model.ProfilesDao.
type MockProfilesDao struct {
	mu   sync.Mutex
	rows map[string]*model.Profiles
	Err  error
}

func NewMockProfilesDao(rows ...*model.Profiles) *MockProfilesDao {
	m := &MockProfilesDao{rows: make(map[string]*model.Profiles)}
	for _, r := range rows {
		m.rows[r.Id] = r
	}
	return m
}

func (m *MockProfilesDao) FindOne(_ context.Context, id string) (*model.Profiles, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockProfilesDao) Upsert(_ context.Context, data *model.Profiles) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if existing, ok := m.rows[data.Id]; ok {
		data.CreatedAt = existing.CreatedAt
	}
	cp := *data
	m.rows[data.Id] = &cp
	return nil
}
