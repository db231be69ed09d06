// Package errors provides the classified error primitives used across the prerender
// generator.
//
// A ClassifiedError carries a category (config, content, render, filesystem, ...),
// a severity and a retry hint, plus structured context. The CLI adapter maps
// categories to process exit codes so the deployment pipeline can tell a bad
// configuration apart from a failed write.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("route", "/resume-for/chef").
//		Build()
package errors
