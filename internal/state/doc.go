// Package state persists composition sessions.
//
// A session is the in-progress composition for one project. It is stored as
// a JSON file under the sessions directory, named by a session ID derived
// from the project fingerprint and root path, and rewritten atomically after
// every successful edit.
//
// Key concepts:
//   - SessionState: the persisted composition plus project metadata
//   - InstanceRecord: one persisted page or feature
//   - SessionID: stable identifier derived from project fingerprint and path
//   - StateStore: interface for persisting and loading sessions
package state
