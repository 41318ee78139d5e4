// Package catalog provides the job catalog: a static table mapping locators
// to task functions.
//
// A locator ("module:symbol") is the only thing persisted about a task's
// function, so a task survives a restart exactly when the application
// registers the same locator again before the registry loads.
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which re-exports Catalog and Func.
package catalog
