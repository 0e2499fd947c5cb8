package model

// Table is a single reservable table at a branch for one serving slot,
// the bookable unit of the availability store. The booking and
// cancellation transactions are the only writers of Vacant/ReserveID,
// and they maintain the invariant Vacant == (ReserveID == nil).
//
// Fields:
//  RestaurantID – restaurant the table belongs to.
//  BranchID     – branch the table belongs to.
//  TableID      – per-branch table number.
//  Slot         – serving time in "HH:MM" form (a scheduled slot, not a duration).
//  Seats        – seat capacity, at least 1.
//  Vacant       – whether the table is free for its slot.
//  ReserveID    – ledger entry occupying the table, nil while vacant.
type Table struct {
	RestaurantID uint64  // tables.restaurant_id
	BranchID     uint64  // tables.branch_id
	TableID      uint64  // tables.table_id
	Slot         string  // tables.time
	Seats        int     // tables.seats
	Vacant       bool    // tables.vacant
	ReserveID    *uint64 // tables.reserve_id (nullable)
}
