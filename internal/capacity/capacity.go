// Package capacity computes a user's total seat allowance.  The total is
// never stored: every caller recomputes it from the extra-chair quota and
// the capacities of the tables the user currently holds, so the value is
// always consistent with the reservation set at read time.
package capacity

// Total returns extraQuota plus the sum of the given table capacities.
func Total(extraQuota int, tableCapacities []int) int {
    total := extraQuota
    for _, c := range tableCapacities {
        total += c
    }
    return total
}

// TotalExcluding is Total over the user's reservations with one of them
// left out.  It yields the capacity as it would be immediately after that
// reservation is cancelled, which is what the pre-cancel guest check needs;
// computing the "future" value analytically avoids delete-then-maybe-revert.
func TotalExcluding(extraQuota int, capacityByReservation map[uint64]int, excludeReservationID uint64) int {
    total := extraQuota
    for id, c := range capacityByReservation {
        if id == excludeReservationID {
            continue
        }
        total += c
    }
    return total
}
