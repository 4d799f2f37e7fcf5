package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hackhub-dev/hackhub/internal/models"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB, sessions *fakeSessionStore) *Admin {
	service := NewAdmin(db, sessions)
	service.Now = fixedClock(testNow)
	return service
}

func latestAudit(t *testing.T, db *gorm.DB, action string) models.AuditLog {
	t.Helper()

	var entry models.AuditLog
	if err := db.Where("action = ?", action).Order("id DESC").First(&entry).Error; err != nil {
		t.Fatalf("audit entry for %q missing: %v", action, err)
	}
	return entry
}

func auditDetails(t *testing.T, entry models.AuditLog) map[string]interface{} {
	t.Helper()

	details := make(map[string]interface{})
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("decode audit details: %v", err)
	}
	return details
}

func TestDecideRegistrationRecordsDecisionAndAudit(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)

	registrations := &Registrations{DB: db, Now: fixedClock(testNow)}
	applied, err := registrations.Apply(alice.ID, hackathon.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	decided, err := service.DecideRegistration(admin.ID, applied.ID, models.RegistrationAccepted, "strong application")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if decided.Status != models.RegistrationAccepted {
		t.Fatalf("expected accepted, got %q", decided.Status)
	}
	if decided.ReviewedBy == nil || *decided.ReviewedBy != admin.ID {
		t.Fatalf("expected reviewed_by %d, got %v", admin.ID, decided.ReviewedBy)
	}
	if decided.ReviewedAt == nil || !decided.ReviewedAt.Equal(testNow) {
		t.Fatalf("expected reviewed_at %v, got %v", testNow, decided.ReviewedAt)
	}
	if decided.DecisionReason != "strong application" {
		t.Fatalf("unexpected decision reason %q", decided.DecisionReason)
	}

	entry := latestAudit(t, db, "registration.decision")
	if entry.ActorUserID != admin.ID {
		t.Fatalf("expected actor %d, got %d", admin.ID, entry.ActorUserID)
	}
	if entry.TargetUserID == nil || *entry.TargetUserID != alice.ID {
		t.Fatalf("expected target %d, got %v", alice.ID, entry.TargetUserID)
	}
	if entry.HackathonID == nil || *entry.HackathonID != hackathon.ID {
		t.Fatalf("expected hackathon %d, got %v", hackathon.ID, entry.HackathonID)
	}

	details := auditDetails(t, entry)
	if details["decision"] != string(models.RegistrationAccepted) {
		t.Fatalf("expected decision in details, got %v", details)
	}
}

func TestDecideRegistrationAllowsRevertToPending(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	registration := acceptRegistration(t, db, alice.ID, hackathon.ID)

	service := newAdminService(db, newFakeSessionStore())

	decided, err := service.DecideRegistration(admin.ID, registration.ID, models.RegistrationPending, "re-review")
	if err != nil {
		t.Fatalf("revert to pending: %v", err)
	}
	if decided.Status != models.RegistrationPending {
		t.Fatalf("expected pending, got %q", decided.Status)
	}
}

func TestDecideRegistrationRejectsUnknownDecision(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.DecideRegistration(admin.ID, 1, models.RegistrationStatus("approved"), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if count := countRows(t, db, &models.AuditLog{}, "1 = 1"); count != 0 {
		t.Fatal("validation failure must not write an audit entry")
	}
}

func TestBlockUserRevokesSessions(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	sessions := newFakeSessionStore()
	sessions.live["sid-1"] = alice.ID
	sessions.live["sid-2"] = alice.ID

	service := newAdminService(db, sessions)

	blocked, err := service.BlockUser(admin.ID, alice.ID, "abusive behavior")
	if err != nil {
		t.Fatalf("block: %v", err)
	}

	if blocked.Status != models.UserStatusBlocked {
		t.Fatalf("expected blocked status, got %q", blocked.Status)
	}
	if blocked.BlockedReason != "abusive behavior" {
		t.Fatalf("unexpected reason %q", blocked.BlockedReason)
	}
	if blocked.BlockedBy == nil || *blocked.BlockedBy != admin.ID {
		t.Fatalf("expected blocked_by %d, got %v", admin.ID, blocked.BlockedBy)
	}
	if blocked.BlockedAt == nil || !blocked.BlockedAt.Equal(testNow) {
		t.Fatalf("expected blocked_at %v, got %v", testNow, blocked.BlockedAt)
	}

	if len(sessions.revokedAll) != 1 || sessions.revokedAll[0] != alice.ID {
		t.Fatalf("expected sessions revoked for user %d, got %v", alice.ID, sessions.revokedAll)
	}
	if len(sessions.live) != 0 {
		t.Fatalf("expected no live sessions, got %d", len(sessions.live))
	}

	entry := latestAudit(t, db, "user.block")
	if entry.TargetUserID == nil || *entry.TargetUserID != alice.ID {
		t.Fatalf("expected audit target %d, got %v", alice.ID, entry.TargetUserID)
	}
	details := auditDetails(t, entry)
	if details["reason"] != "abusive behavior" {
		t.Fatalf("expected reason in details, got %v", details)
	}
}

func TestBlockUserRequiresReason(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.BlockUser(admin.ID, alice.ID, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBlockOrganizerForbidden(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	organizer := createUser(t, db, "org@example.com", models.RoleOrganizer)

	sessions := newFakeSessionStore()
	service := newAdminService(db, sessions)

	if _, err := service.BlockUser(admin.ID, organizer.ID, "nope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if count := countRows(t, db, &models.AuditLog{}, "action = ?", "user.block"); count != 0 {
		t.Fatal("failed block must not write an audit entry")
	}
	if len(sessions.revokedAll) != 0 {
		t.Fatal("failed block must not revoke sessions")
	}
}

func TestUnblockUserClearsBlockFields(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.BlockUser(admin.ID, alice.ID, "spam"); err != nil {
		t.Fatalf("block: %v", err)
	}

	unblocked, err := service.UnblockUser(admin.ID, alice.ID)
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}

	if unblocked.Status != models.UserStatusActive {
		t.Fatalf("expected active status, got %q", unblocked.Status)
	}
	if unblocked.BlockedReason != "" || unblocked.BlockedAt != nil || unblocked.BlockedBy != nil {
		t.Fatalf("expected block fields cleared, got %+v", unblocked)
	}

	entry := latestAudit(t, db, "user.unblock")
	if entry.TargetUserID == nil || *entry.TargetUserID != alice.ID {
		t.Fatalf("expected audit target %d, got %v", alice.ID, entry.TargetUserID)
	}
}

func TestChangeUserRole(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	promoted, err := service.ChangeUserRole(admin.ID, alice.ID, models.RoleOrganizer)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if promoted.Role != models.RoleOrganizer {
		t.Fatalf("expected organizer, got %q", promoted.Role)
	}

	entry := latestAudit(t, db, "user.role_change")
	details := auditDetails(t, entry)
	if details["from"] != string(models.RoleParticipant) || details["to"] != string(models.RoleOrganizer) {
		t.Fatalf("unexpected role change details %v", details)
	}
}

func TestChangeUserRoleRejectsAdminGrant(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.ChangeUserRole(admin.ID, alice.ID, models.RoleAdmin); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRemoveMemberAllowsLeaderlessTeam(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leader := createUser(t, db, "leader@example.com", models.RoleParticipant)
	bob := createUser(t, db, "bob@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	acceptRegistration(t, db, leader.ID, hackathon.ID)
	acceptRegistration(t, db, bob.ID, hackathon.ID)

	teams := newTeamsService(db, "ABCD1234")
	team, err := teams.Create(leader.ID, hackathon.ID, "Rocket", false)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := teams.JoinByCode(bob.ID, team.TeamCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	if err := service.RemoveMember(admin.ID, team.ID, leader.ID); err != nil {
		t.Fatalf("remove leader: %v", err)
	}

	if count := countRows(t, db, &models.Team{}, "id = ?", team.ID); count != 1 {
		t.Fatal("team must survive leader removal")
	}
	if count := countRows(t, db, &models.TeamMember{}, "team_id = ? AND role = ?", team.ID, models.TeamRoleLeader); count != 0 {
		t.Fatal("expected no leaders left")
	}
	if count := countRows(t, db, &models.TeamMember{}, "team_id = ?", team.ID); count != 1 {
		t.Fatal("expected remaining member untouched")
	}

	entry := latestAudit(t, db, "team.remove_member")
	if entry.TargetUserID == nil || *entry.TargetUserID != leader.ID {
		t.Fatalf("expected audit target %d, got %v", leader.ID, entry.TargetUserID)
	}
}

func TestRemoveMemberUnknownMembership(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leader := createUser(t, db, "leader@example.com", models.RoleParticipant)
	outsider := createUser(t, db, "out@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	acceptRegistration(t, db, leader.ID, hackathon.ID)

	teams := newTeamsService(db, "ABCD1234")
	team, err := teams.Create(leader.ID, hackathon.ID, "Rocket", false)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	if err := service.RemoveMember(admin.ID, team.ID, outsider.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddMemberEnforcesCapacity(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leader := createUser(t, db, "leader@example.com", models.RoleParticipant)
	bob := createUser(t, db, "bob@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 1)
	acceptRegistration(t, db, leader.ID, hackathon.ID)

	teams := newTeamsService(db, "ABCD1234")
	team, err := teams.Create(leader.ID, hackathon.ID, "Solo", false)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.AddMember(admin.ID, team.ID, bob.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if count := countRows(t, db, &models.AuditLog{}, "action = ?", "team.add_member"); count != 0 {
		t.Fatal("failed add must not write an audit entry")
	}
}

func TestAddMemberRejectsMembershipElsewhere(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leaderA := createUser(t, db, "a@example.com", models.RoleParticipant)
	leaderB := createUser(t, db, "b@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	acceptRegistration(t, db, leaderA.ID, hackathon.ID)
	acceptRegistration(t, db, leaderB.ID, hackathon.ID)

	teams := newTeamsService(db, "AAAA1111", "BBBB2222")
	teamA, err := teams.Create(leaderA.ID, hackathon.ID, "Alpha", false)
	if err != nil {
		t.Fatalf("create team A: %v", err)
	}
	if _, err := teams.Create(leaderB.ID, hackathon.ID, "Beta", false); err != nil {
		t.Fatalf("create team B: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.AddMember(admin.ID, teamA.ID, leaderB.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAddMemberInsertsAndAudits(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leader := createUser(t, db, "leader@example.com", models.RoleParticipant)
	bob := createUser(t, db, "bob@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	acceptRegistration(t, db, leader.ID, hackathon.ID)

	teams := newTeamsService(db, "ABCD1234")
	team, err := teams.Create(leader.ID, hackathon.ID, "Rocket", false)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	member, err := service.AddMember(admin.ID, team.ID, bob.ID)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if member.Role != models.TeamRoleMember {
		t.Fatalf("expected member role, got %q", member.Role)
	}
	if !member.JoinedAt.Equal(testNow) {
		t.Fatalf("expected joined_at %v, got %v", testNow, member.JoinedAt)
	}

	entry := latestAudit(t, db, "team.add_member")
	if entry.HackathonID == nil || *entry.HackathonID != hackathon.ID {
		t.Fatalf("expected audit hackathon %d, got %v", hackathon.ID, entry.HackathonID)
	}
}

func TestAddMemberDuplicateSameTeam(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	leader := createUser(t, db, "leader@example.com", models.RoleParticipant)
	hackathon := createHackathon(t, db, 4)
	acceptRegistration(t, db, leader.ID, hackathon.ID)

	teams := newTeamsService(db, "ABCD1234")
	team, err := teams.Create(leader.ID, hackathon.ID, "Rocket", false)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.AddMember(admin.ID, team.ID, leader.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuditTrailOrderedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	if _, err := service.BlockUser(admin.ID, alice.ID, "first"); err != nil {
		t.Fatalf("block: %v", err)
	}

	service.Now = fixedClock(testNow.Add(time.Hour))

	if _, err := service.UnblockUser(admin.ID, alice.ID); err != nil {
		t.Fatalf("unblock: %v", err)
	}

	trail, err := service.AuditTrail(alice.ID)
	if err != nil {
		t.Fatalf("audit trail: %v", err)
	}

	if len(trail) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(trail))
	}
	if trail[0].Action != "user.unblock" || trail[1].Action != "user.block" {
		t.Fatalf("expected newest-first ordering, got %q then %q", trail[0].Action, trail[1].Action)
	}
}

func TestAuditBroadcastFiresAfterCommit(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, db, "alice@example.com", models.RoleParticipant)

	service := newAdminService(db, newFakeSessionStore())

	var broadcasts []models.AuditLog
	service.Broadcast = func(entry models.AuditLog) {
		broadcasts = append(broadcasts, entry)
	}

	if _, err := service.BlockUser(admin.ID, alice.ID, "spam"); err != nil {
		t.Fatalf("block: %v", err)
	}

	if len(broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(broadcasts))
	}
	if broadcasts[0].Action != "user.block" {
		t.Fatalf("expected user.block broadcast, got %q", broadcasts[0].Action)
	}
	if broadcasts[0].ID == 0 {
		t.Fatal("broadcast entry must carry the persisted id")
	}

	if _, err := service.BlockUser(admin.ID, 9999, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(broadcasts) != 1 {
		t.Fatal("failed mutation must not broadcast")
	}
}
