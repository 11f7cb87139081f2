// Package report maps optimizer output back to the selected units and
// recovered objective totals.
//
// Build drops any solution whose decision vector and recovered objective
// values repeat an earlier one. Text renders the plain-text listing:
//
//	Solution 1:
//	engine: Engine A
//	propeller: Prop A
//	total_cost: 13
//	total_power: 55
//
// Plot renders the first two objectives as an HTML scatter chart.
package report
