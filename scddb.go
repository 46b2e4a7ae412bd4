// Package scddb turns dance description pages from a Scottish country
// dance database into typed dance records and keeps them in a local
// catalogue.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, minio/).
package scddb
