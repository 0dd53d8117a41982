package usecase

import (
	"context"

	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

// mockPermissions resolves permission snapshots from a fixed map; unknown
// users get the empty set.
type mockPermissions struct {
	sets map[uuid.UUID]permissions.Set
	err  error
}

func (m *mockPermissions) GetUserGlobalPermissions(_ context.Context, userID uuid.UUID) (permissions.Set, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.sets[userID]; ok {
		return s, nil
	}
	return permissions.NewSet(), nil
}

type mockTeamRepo struct {
	teams   map[uuid.UUID]repository.Team
	members map[uuid.UUID]map[uuid.UUID]bool
	count   int

	// createConflict makes CreateTeam report a name collision even when
	// the mock holds no such team, the way a concurrent insert would.
	createConflict bool
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{
		teams:   map[uuid.UUID]repository.Team{},
		members: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *mockTeamRepo) addTeam(name string) repository.Team {
	t := repository.Team{ID: uuid.New(), Name: name}
	m.teams[t.ID] = t
	m.count++
	return t
}

func (m *mockTeamRepo) addMember(teamID, userID uuid.UUID) {
	if m.members[teamID] == nil {
		m.members[teamID] = map[uuid.UUID]bool{}
	}
	m.members[teamID][userID] = true
}

func (m *mockTeamRepo) CreateTeam(_ context.Context, name string) (repository.Team, error) {
	if m.createConflict {
		return repository.Team{}, repository.ErrTeamExists
	}
	for _, t := range m.teams {
		if t.Name == name {
			return repository.Team{}, repository.ErrTeamExists
		}
	}
	return m.addTeam(name), nil
}

func (m *mockTeamRepo) GetTeamByID(_ context.Context, id uuid.UUID) (repository.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return repository.Team{}, repository.ErrTeamNotFound
	}
	return t, nil
}

func (m *mockTeamRepo) GetTeamByName(_ context.Context, name string) (repository.Team, error) {
	for _, t := range m.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return repository.Team{}, repository.ErrTeamNotFound
}

func (m *mockTeamRepo) ListTeams(context.Context) ([]repository.Team, error) {
	out := make([]repository.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTeamRepo) DeleteTeam(_ context.Context, id uuid.UUID) error {
	if _, ok := m.teams[id]; !ok {
		return repository.ErrTeamNotFound
	}
	delete(m.teams, id)
	m.count--
	return nil
}

func (m *mockTeamRepo) CountTeams(context.Context) (int, error) { return m.count, nil }

func (m *mockTeamRepo) GetTeamMembers(_ context.Context, teamID uuid.UUID) ([]repository.TeamMember, error) {
	out := make([]repository.TeamMember, 0, len(m.members[teamID]))
	for userID := range m.members[teamID] {
		out = append(out, repository.TeamMember{UserID: userID})
	}
	return out, nil
}

func (m *mockTeamRepo) IsTeamMember(_ context.Context, teamID, userID uuid.UUID) (bool, error) {
	return m.members[teamID][userID], nil
}

func (m *mockTeamRepo) AddMember(_ context.Context, teamID, userID uuid.UUID, _ bool) error {
	if m.members[teamID][userID] {
		return repository.ErrMemberExists
	}
	m.addMember(teamID, userID)
	return nil
}

func (m *mockTeamRepo) RemoveMember(_ context.Context, teamID, userID uuid.UUID) error {
	if !m.members[teamID][userID] {
		return repository.ErrMemberNotFound
	}
	delete(m.members[teamID], userID)
	return nil
}

func (m *mockTeamRepo) SetMemberAdmin(_ context.Context, teamID, userID uuid.UUID, _ bool) error {
	if !m.members[teamID][userID] {
		return repository.ErrMemberNotFound
	}
	return nil
}

type mockSkillRepo struct {
	skills  map[uuid.UUID]repository.Skill
	prereqs map[uuid.UUID]map[uuid.UUID]bool
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{
		skills:  map[uuid.UUID]repository.Skill{},
		prereqs: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *mockSkillRepo) addSkill(name string) repository.Skill {
	s := repository.Skill{ID: uuid.New(), Name: name}
	m.skills[s.ID] = s
	return s
}

func (m *mockSkillRepo) CreateSkill(_ context.Context, name string) (repository.Skill, error) {
	for _, s := range m.skills {
		if s.Name == name {
			return repository.Skill{}, repository.ErrSkillExists
		}
	}
	return m.addSkill(name), nil
}

func (m *mockSkillRepo) GetSkillByID(_ context.Context, id uuid.UUID) (repository.Skill, error) {
	s, ok := m.skills[id]
	if !ok {
		return repository.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (m *mockSkillRepo) GetSkillByName(_ context.Context, name string) (repository.Skill, error) {
	for _, s := range m.skills {
		if s.Name == name {
			return s, nil
		}
	}
	return repository.Skill{}, repository.ErrSkillNotFound
}

func (m *mockSkillRepo) ListSkills(context.Context) ([]repository.Skill, error) {
	out := make([]repository.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSkillRepo) DeleteSkill(_ context.Context, id uuid.UUID) error {
	if _, ok := m.skills[id]; !ok {
		return repository.ErrSkillNotFound
	}
	delete(m.skills, id)
	return nil
}

func (m *mockSkillRepo) AddPrerequisite(_ context.Context, skillID, prerequisiteID uuid.UUID) error {
	if m.prereqs[skillID][prerequisiteID] {
		return repository.ErrPrerequisiteExists
	}
	if m.prereqs[skillID] == nil {
		m.prereqs[skillID] = map[uuid.UUID]bool{}
	}
	m.prereqs[skillID][prerequisiteID] = true
	return nil
}

func (m *mockSkillRepo) RemovePrerequisite(_ context.Context, skillID, prerequisiteID uuid.UUID) error {
	if !m.prereqs[skillID][prerequisiteID] {
		return repository.ErrPrerequisiteNotFound
	}
	delete(m.prereqs[skillID], prerequisiteID)
	return nil
}

func (m *mockSkillRepo) GetPrerequisites(_ context.Context, skillID uuid.UUID) ([]repository.Skill, error) {
	out := make([]repository.Skill, 0, len(m.prereqs[skillID]))
	for id := range m.prereqs[skillID] {
		out = append(out, m.skills[id])
	}
	return out, nil
}

func (m *mockSkillRepo) GetContributions(_ context.Context, skillID uuid.UUID) ([]repository.Skill, error) {
	var out []repository.Skill
	for dependent, edges := range m.prereqs {
		if edges[skillID] {
			out = append(out, m.skills[dependent])
		}
	}
	return out, nil
}

type mockTeamSkillRepo struct {
	byTeam  map[uuid.UUID][]repository.TeamSkill
	upvotes map[uuid.UUID]map[uuid.UUID]bool
}

func newMockTeamSkillRepo() *mockTeamSkillRepo {
	return &mockTeamSkillRepo{
		byTeam:  map[uuid.UUID][]repository.TeamSkill{},
		upvotes: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *mockTeamSkillRepo) addTeamSkill(teamID, skillID uuid.UUID, name string) repository.TeamSkill {
	ts := repository.TeamSkill{ID: uuid.New(), TeamID: teamID, SkillID: skillID, SkillName: name}
	m.byTeam[teamID] = append(m.byTeam[teamID], ts)
	return ts
}

func (m *mockTeamSkillRepo) GetTeamSkills(_ context.Context, teamID uuid.UUID) ([]repository.TeamSkill, error) {
	listed := m.byTeam[teamID]
	out := make([]repository.TeamSkill, 0, len(listed))
	for _, ts := range listed {
		var voters []uuid.UUID
		for userID := range m.upvotes[ts.ID] {
			voters = append(voters, userID)
		}
		ts.UpvotingUserIDs = voters
		out = append(out, ts)
	}
	return out, nil
}

func (m *mockTeamSkillRepo) AddTeamSkill(_ context.Context, teamID, skillID uuid.UUID) (repository.TeamSkill, error) {
	for _, ts := range m.byTeam[teamID] {
		if ts.SkillID == skillID {
			return repository.TeamSkill{}, repository.ErrTeamSkillExists
		}
	}
	return m.addTeamSkill(teamID, skillID, ""), nil
}

func (m *mockTeamSkillRepo) RemoveTeamSkill(_ context.Context, teamID, skillID uuid.UUID) error {
	listed := m.byTeam[teamID]
	for i, ts := range listed {
		if ts.SkillID == skillID {
			m.byTeam[teamID] = append(listed[:i], listed[i+1:]...)
			return nil
		}
	}
	return repository.ErrTeamSkillNotFound
}

func (m *mockTeamSkillRepo) Upvote(_ context.Context, teamSkillID, userID uuid.UUID) error {
	if m.upvotes[teamSkillID] == nil {
		m.upvotes[teamSkillID] = map[uuid.UUID]bool{}
	}
	m.upvotes[teamSkillID][userID] = true
	return nil
}

func (m *mockTeamSkillRepo) RemoveUpvote(_ context.Context, teamSkillID, userID uuid.UUID) (bool, error) {
	if !m.upvotes[teamSkillID][userID] {
		return false, nil
	}
	delete(m.upvotes[teamSkillID], userID)
	return true, nil
}

func (m *mockTeamSkillRepo) voteCount(teamSkillID uuid.UUID) int {
	return len(m.upvotes[teamSkillID])
}

type mockUserRepo struct {
	users  map[uuid.UUID]repository.User
	grants map[uuid.UUID]permissions.Set
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  map[uuid.UUID]repository.User{},
		grants: map[uuid.UUID]permissions.Set{},
	}
}

func (m *mockUserRepo) addUser(email string, perms ...permissions.Permission) repository.User {
	u := repository.User{ID: uuid.New(), Email: email}
	m.users[u.ID] = u
	m.grants[u.ID] = permissions.NewSet(perms...)
	return u
}

func (m *mockUserRepo) CreateUserWithGrants(_ context.Context, u repository.User, grants []permissions.Permission) error {
	if _, ok := m.users[u.ID]; ok {
		return repository.ErrUserExists
	}
	m.users[u.ID] = u
	m.grants[u.ID] = permissions.NewSet(grants...)
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ListUsers(context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) GetGlobalPermissions(_ context.Context, userID uuid.UUID) (permissions.Set, error) {
	if s, ok := m.grants[userID]; ok {
		return s, nil
	}
	return permissions.NewSet(), nil
}

func (m *mockUserRepo) AddGlobalPermissions(_ context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	if m.grants[userID] == nil {
		m.grants[userID] = permissions.NewSet()
	}
	for _, p := range perms {
		m.grants[userID].Add(p)
	}
	return nil
}

func (m *mockUserRepo) RemoveGlobalPermissions(_ context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	for _, p := range perms {
		m.grants[userID].Remove(p)
	}
	return nil
}

// snapshots adapts a mockUserRepo's grant table into a permission source,
// bypassing the cache layer.
func snapshots(users *mockUserRepo) *mockPermissions {
	return &mockPermissions{sets: users.grants}
}
