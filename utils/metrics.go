package utils

import (
	"expvar"
)

var AnalyzeRequestsTotal = expvar.NewInt("analyze_requests_total")
var AnalyzeSuccessTotal = expvar.NewInt("analyze_success_total")
var AnalyzeSentinelTotal = expvar.NewInt("analyze_sentinel_total")
var AnalyzeRejectedTotal = expvar.NewInt("analyze_rejected_total")
var AnalyzeFailuresTotal = expvar.NewInt("analyze_failures_total")
var OutcomeRecordFailures = expvar.NewInt("outcome_record_failures_total")
