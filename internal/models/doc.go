// package models defines the data model for the vinyl collection service.
//
// The collection has a single persistent entity, [Record]. Everything fetched
// from the Discogs API is transient until it is converted into a Record.
package models
