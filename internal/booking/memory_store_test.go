package booking

import (
	"context"
	"sync"
	"time"
)

// memStore is an in-memory Store used to exercise the booking protocol
// without a database. Begin acquires a store-wide mutex that is held until
// Commit or Rollback, which gives the double serializable isolation: the
// interleavings the row locks prevent in MySQL simply cannot happen here
// either. Writes are buffered per transaction and applied at Commit, so a
// rolled-back transaction leaves no trace.
type memStore struct {
	mu       sync.Mutex
	branches map[string][2]uint64 // "name|location" -> (restaurantID, branchID)
	tables   []*memTable
	reserves map[uint64]*memReserve
	points   map[uint64]int

	nextReserveID uint64
	// conflicts > 0 makes SelectVacantTable fail with ErrSerialization
	// that many times, for exercising the retry loop.
	conflicts int
}

type memTable struct {
	restaurantID, branchID, tableID uint64
	slot                            string
	seats                           int
	vacant                          bool
	reserveID                       *uint64
}

type memReserve struct {
	accountID  uint64
	ts         time.Time
	guestCount int
}

func newMemStore() *memStore {
	return &memStore{
		branches: make(map[string][2]uint64),
		reserves: make(map[uint64]*memReserve),
		points:   make(map[uint64]int),
	}
}

func (m *memStore) addBranch(name, location string, restaurantID, branchID uint64) {
	m.branches[name+"|"+location] = [2]uint64{restaurantID, branchID}
}

func (m *memStore) addTable(restaurantID, branchID, tableID uint64, slot string, seats int) {
	m.tables = append(m.tables, &memTable{
		restaurantID: restaurantID,
		branchID:     branchID,
		tableID:      tableID,
		slot:         slot,
		seats:        seats,
		vacant:       true,
	})
}

func (m *memStore) table(tableID uint64) *memTable {
	for _, t := range m.tables {
		if t.tableID == tableID {
			return t
		}
	}
	return nil
}

type memTx struct {
	st   *memStore
	done bool
	// buffered mutations, applied in order at Commit while the store
	// mutex is still held
	writes []func()
}

func (m *memStore) Begin(ctx context.Context) (Tx, error) {
	m.mu.Lock()
	return &memTx{st: m}, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	for _, w := range t.writes {
		w()
	}
	t.done = true
	t.st.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.writes = nil
	t.done = true
	t.st.mu.Unlock()
	return nil
}

func (m *memStore) ResolveBranch(ctx context.Context, tx Tx, restaurantName, branchLocation string) (uint64, uint64, error) {
	ids, ok := m.branches[restaurantName+"|"+branchLocation]
	if !ok {
		return 0, 0, ErrNoMatch
	}
	return ids[0], ids[1], nil
}

func (m *memStore) SelectVacantTable(ctx context.Context, tx Tx, restaurantID, branchID uint64, slot string, partySize int) (uint64, error) {
	if m.conflicts > 0 {
		m.conflicts--
		return 0, ErrSerialization
	}
	var best *memTable
	for _, t := range m.tables {
		if t.restaurantID != restaurantID || t.branchID != branchID {
			continue
		}
		if t.slot != slot || t.seats < partySize || !t.vacant {
			continue
		}
		if best == nil || t.seats < best.seats || (t.seats == best.seats && t.tableID < best.tableID) {
			best = t
		}
	}
	if best == nil {
		return 0, ErrNoMatch
	}
	return best.tableID, nil
}

func (m *memStore) InsertReservation(ctx context.Context, tx Tx, accountID uint64, ts time.Time, guestCount int) (uint64, error) {
	// Like a database sequence, the id survives rollback.
	m.nextReserveID++
	id := m.nextReserveID
	tx.(*memTx).writes = append(tx.(*memTx).writes, func() {
		m.reserves[id] = &memReserve{accountID: accountID, ts: ts, guestCount: guestCount}
	})
	return id, nil
}

func (m *memStore) OccupyTable(ctx context.Context, tx Tx, restaurantID, branchID, tableID, reserveID uint64) error {
	tx.(*memTx).writes = append(tx.(*memTx).writes, func() {
		for _, t := range m.tables {
			if t.restaurantID == restaurantID && t.branchID == branchID && t.tableID == tableID {
				rid := reserveID
				t.vacant = false
				t.reserveID = &rid
			}
		}
	})
	return nil
}

func (m *memStore) ReservationAccount(ctx context.Context, tx Tx, reserveID uint64) (uint64, error) {
	r, ok := m.reserves[reserveID]
	if !ok {
		return 0, ErrNoMatch
	}
	return r.accountID, nil
}

func (m *memStore) FreeTableByReservation(ctx context.Context, tx Tx, reserveID uint64) (bool, error) {
	freed := false
	for _, t := range m.tables {
		if t.reserveID != nil && *t.reserveID == reserveID {
			freed = true
			tbl := t
			tx.(*memTx).writes = append(tx.(*memTx).writes, func() {
				tbl.vacant = true
				tbl.reserveID = nil
			})
		}
	}
	return freed, nil
}

func (m *memStore) DeleteReservation(ctx context.Context, tx Tx, reserveID uint64) (bool, error) {
	if _, ok := m.reserves[reserveID]; !ok {
		return false, nil
	}
	tx.(*memTx).writes = append(tx.(*memTx).writes, func() {
		delete(m.reserves, reserveID)
	})
	return true, nil
}

func (m *memStore) AddRewardPoints(ctx context.Context, tx Tx, accountID uint64, points int) error {
	tx.(*memTx).writes = append(tx.(*memTx).writes, func() {
		m.points[accountID] += points
	})
	return nil
}
