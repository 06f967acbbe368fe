// Package workflow contains the cross-collection orchestrators: report
// intake (persist, match, summarize, fan out) and back-office verification.
package workflow
