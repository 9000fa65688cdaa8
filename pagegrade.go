// Package pagegrade analyzes the front-end quality of a web page.
// Given a URL it fetches the page, discovers the CSS and JavaScript the
// page actually uses, runs static checks against each and produces a
// weighted score with human-readable feedback.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package pagegrade
