// Package domain contains the core business entities of the task API,
// independent of any storage engine or delivery mechanism.
package domain
