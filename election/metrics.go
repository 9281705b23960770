// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/electra/fault"
	"github.com/vechain/electra/metrics"
)

var (
	metricOpCount          = metrics.LazyLoadCounterVec("election_operation_count", []string{"op", "status"})
	metricElectionDuration = metrics.LazyLoadHistogram("election_signers_duration_ms", metrics.BucketMillis)
	metricCommitteeSize    = metrics.LazyLoadGauge("election_committee_size_gauge")
	metricEligibleGroups   = metrics.LazyLoadGauge("election_eligible_group_count_gauge")
)

func countOp(op string, err error) {
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": opStatus(err)})
}

func opStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case fault.IsValidation(err):
		return "validation"
	case fault.IsConsistency(err):
		return "consistency"
	case fault.IsCapacity(err):
		return "capacity"
	default:
		return "error"
	}
}
