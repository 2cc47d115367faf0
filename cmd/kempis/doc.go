// Package main hosts the kempis CLI.
//
// Commands build the combined Latin/English corpus table from the per-book
// aligned files, verify a written table, list the aligned inputs, print the
// PostgreSQL load script, and generate the sheet used for manual alignment.
// Configuration comes from the environment (and an optional .env file);
// flags override individual fields.
package main
