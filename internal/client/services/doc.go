// Package services contains application services for the recipebook CLI.
//
// RecipeService validates recipe input and forwards it to the API on behalf
// of the logged-in user. ExportService takes a snapshot of the user's data
// and writes it to a file or S3.
package services
