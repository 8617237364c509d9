// Package vault implements the access-control, encryption-at-rest and
// audit-trail core of Keeper.
//
// Services in this package are the only writers of project, grant and asset
// rows; all mutation flows through them so the encryption and audit
// invariants hold. Each operation takes the per-request identity scope
// explicitly; nothing here reads ambient global state.
//
//   - IdentityService: resolves and provisions directory-backed identities
//     and administrator designations
//   - AccessService: evaluates and mutates per-project access grants
//   - ProjectsService: project lifecycle with field encryption at the
//     persistence edge and an audit event for every state change
//   - AssetsService: credential and note lifecycle inside a project
package vault
