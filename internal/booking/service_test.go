package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService wires a service to a fresh memStore with one branch
// ("Sakura" at "Downtown", restaurant 1 / branch 1) and default policy.
func newTestService(cfg Config) (*Service, *memStore) {
	st := newMemStore()
	st.addBranch("Sakura", "Downtown", 1, 1)
	return NewService(st, cfg), st
}

// checkInvariants asserts that every table's occupancy flag agrees with
// its ledger back-reference, and that every referenced ledger entry exists
// with a guest count within the table's capacity.
func checkInvariants(t *testing.T, st *memStore) {
	t.Helper()
	for _, tbl := range st.tables {
		assert.Equal(t, tbl.reserveID == nil, tbl.vacant,
			"table %d: vacant flag must mirror the ledger back-reference", tbl.tableID)
		if tbl.reserveID != nil {
			r, ok := st.reserves[*tbl.reserveID]
			require.True(t, ok, "table %d references a missing ledger entry", tbl.tableID)
			assert.LessOrEqual(t, r.guestCount, tbl.seats)
		}
	}
}

func TestBookPicksSmallestSufficientTable(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 2)
	st.addTable(1, 1, 2, "18:00", 4)

	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 3,
	})
	require.NoError(t, err)
	require.Equal(t, BookConfirmed, res.Outcome)
	require.NotZero(t, res.ReserveID)

	// Only the four-seater fits a party of three; the two-seater stays free.
	u1, u2 := st.table(1), st.table(2)
	assert.True(t, u1.vacant)
	assert.Nil(t, u1.reserveID)
	assert.False(t, u2.vacant)
	require.NotNil(t, u2.reserveID)
	assert.Equal(t, res.ReserveID, *u2.reserveID)

	ledger := st.reserves[res.ReserveID]
	require.NotNil(t, ledger)
	assert.Equal(t, uint64(7), ledger.accountID)
	assert.Equal(t, 3, ledger.guestCount)
	checkInvariants(t, st)
}

func TestBookEqualCapacityPrefersLowestTableID(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 5, "18:00", 2)
	st.addTable(1, 1, 3, "18:00", 2)

	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, BookConfirmed, res.Outcome)
	assert.False(t, st.table(3).vacant)
	assert.True(t, st.table(5).vacant)
}

func TestBookFullyBooked(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 2)
	st.addTable(1, 1, 2, "18:00", 4)
	ctx := context.Background()

	for _, party := range []int{2, 4} {
		res, err := svc.Book(ctx, BookRequest{
			AccountID: 7, IsCustomer: true,
			RestaurantName: "Sakura", BranchLocation: "Downtown",
			Slot: "18:00", PartySize: party,
		})
		require.NoError(t, err)
		require.Equal(t, BookConfirmed, res.Outcome)
	}

	// Both tables occupied: even a party of one is turned away, and no
	// ledger entry is written for the attempt.
	before := len(st.reserves)
	res, err := svc.Book(ctx, BookRequest{
		AccountID: 9, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, BookFullyBooked, res.Outcome)
	assert.Zero(t, res.ReserveID)
	assert.Len(t, st.reserves, before)
	checkInvariants(t, st)
}

func TestBookSlotMustMatchExactly(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)

	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "19:00", PartySize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, BookFullyBooked, res.Outcome)
	assert.True(t, st.table(1).vacant)
}

func TestBookUnknownBranchIsFullyBooked(t *testing.T) {
	svc, _ := newTestService(Config{})
	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Nowhere", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, BookFullyBooked, res.Outcome)
}

func TestBookRejectsNonCustomers(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)

	_, err := svc.Book(context.Background(), BookRequest{
		AccountID: 2, IsCustomer: false,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.True(t, st.table(1).vacant)
	assert.Empty(t, st.reserves)
}

func TestBookRejectsNonPositiveParty(t *testing.T) {
	svc, _ := newTestService(Config{})
	_, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidPartySize)
}

func TestCancelRoundTrip(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)
	ctx := context.Background()

	res, err := svc.Book(ctx, BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, BookConfirmed, res.Outcome)

	out, err := svc.Cancel(ctx, res.ReserveID)
	require.NoError(t, err)
	assert.Equal(t, CancelOK, out)

	// Book then cancel restores the unit exactly and leaves no ledger row;
	// a plain cancellation never touches the point balance.
	tbl := st.table(1)
	assert.True(t, tbl.vacant)
	assert.Nil(t, tbl.reserveID)
	assert.Empty(t, st.reserves)
	assert.Zero(t, st.points[7])
	checkInvariants(t, st)
}

func TestCancelTwiceIsNotFound(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)
	ctx := context.Background()

	res, err := svc.Book(ctx, BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)

	out, err := svc.Cancel(ctx, res.ReserveID)
	require.NoError(t, err)
	require.Equal(t, CancelOK, out)

	out, err = svc.Cancel(ctx, res.ReserveID)
	require.NoError(t, err)
	assert.Equal(t, CancelNotFound, out)
	checkInvariants(t, st)
}

func TestCancelUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(Config{})
	out, err := svc.Cancel(context.Background(), 424242)
	require.NoError(t, err)
	assert.Equal(t, CancelNotFound, out)
}

func TestCompleteGrantsFixedReward(t *testing.T) {
	svc, st := newTestService(Config{CompletionReward: 10})
	st.addTable(1, 1, 2, "18:00", 4)
	ctx := context.Background()

	res, err := svc.Book(ctx, BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 3,
	})
	require.NoError(t, err)
	require.Equal(t, BookConfirmed, res.Outcome)
	assert.Zero(t, st.points[7], "booking alone must not grant points")

	out, err := svc.Complete(ctx, res.ReserveID)
	require.NoError(t, err)
	assert.Equal(t, CancelOK, out)

	tbl := st.table(2)
	assert.True(t, tbl.vacant)
	assert.Nil(t, tbl.reserveID)
	assert.Empty(t, st.reserves)
	assert.Equal(t, 10, st.points[7])
	checkInvariants(t, st)
}

func TestCompleteTwiceGrantsOnce(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)
	ctx := context.Background()

	res, err := svc.Book(ctx, BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)

	out, err := svc.Complete(ctx, res.ReserveID)
	require.NoError(t, err)
	require.Equal(t, CancelOK, out)

	out, err = svc.Complete(ctx, res.ReserveID)
	require.NoError(t, err)
	assert.Equal(t, CancelNotFound, out)
	assert.Equal(t, 10, st.points[7])
}

func TestRewardOnBookingPolicy(t *testing.T) {
	svc, st := newTestService(Config{RewardOnBooking: true})
	st.addTable(1, 1, 1, "18:00", 4)

	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, BookConfirmed, res.Outcome)
	assert.Equal(t, 10, st.points[7])
}

func TestConcurrentBookingLastTable(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 4)
	ctx := context.Background()

	const bookers = 10
	var wg sync.WaitGroup
	wg.Add(bookers)
	results := make(chan BookResult, bookers)
	for i := 0; i < bookers; i++ {
		go func(acct uint64) {
			defer wg.Done()
			res, err := svc.Book(ctx, BookRequest{
				AccountID: acct, IsCustomer: true,
				RestaurantName: "Sakura", BranchLocation: "Downtown",
				Slot: "18:00", PartySize: 2,
			})
			if err == nil {
				results <- res
			}
		}(uint64(100 + i))
	}
	wg.Wait()
	close(results)

	confirmed, turnedAway := 0, 0
	for res := range results {
		if res.Outcome == BookConfirmed {
			confirmed++
		} else {
			turnedAway++
		}
	}
	assert.Equal(t, 1, confirmed, "exactly one booker may claim the last table")
	assert.Equal(t, bookers-1, turnedAway)
	assert.Len(t, st.reserves, 1)
	checkInvariants(t, st)
}

func TestConcurrentBookingTwoTables(t *testing.T) {
	svc, st := newTestService(Config{})
	st.addTable(1, 1, 1, "18:00", 2)
	st.addTable(1, 1, 2, "18:00", 4)
	ctx := context.Background()

	const bookers = 8
	var wg sync.WaitGroup
	wg.Add(bookers)
	confirmed := make(chan uint64, bookers)
	for i := 0; i < bookers; i++ {
		go func(acct uint64) {
			defer wg.Done()
			res, err := svc.Book(ctx, BookRequest{
				AccountID: acct, IsCustomer: true,
				RestaurantName: "Sakura", BranchLocation: "Downtown",
				Slot: "18:00", PartySize: 2,
			})
			if err == nil && res.Outcome == BookConfirmed {
				confirmed <- res.ReserveID
			}
		}(uint64(200 + i))
	}
	wg.Wait()
	close(confirmed)

	ids := map[uint64]bool{}
	for id := range confirmed {
		ids[id] = true
	}
	assert.Len(t, ids, 2, "both tables claimed, each exactly once")
	checkInvariants(t, st)
}

func TestBookRetriesSerializationConflicts(t *testing.T) {
	svc, st := newTestService(Config{MaxAttempts: 3})
	st.addTable(1, 1, 1, "18:00", 4)
	st.conflicts = 2 // first two attempts collide, third succeeds

	res, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, BookConfirmed, res.Outcome)
}

func TestBookGivesUpAfterMaxAttempts(t *testing.T) {
	svc, st := newTestService(Config{MaxAttempts: 3})
	st.addTable(1, 1, 1, "18:00", 4)
	st.conflicts = 5

	_, err := svc.Book(context.Background(), BookRequest{
		AccountID: 7, IsCustomer: true,
		RestaurantName: "Sakura", BranchLocation: "Downtown",
		Slot: "18:00", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrTransactionFailed)
	// The failed attempts left nothing behind.
	assert.True(t, st.table(1).vacant)
	assert.Empty(t, st.reserves)
}
