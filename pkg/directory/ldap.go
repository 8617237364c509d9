package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// LDAPService implements Service against an LDAP directory.
type LDAPService struct {
	url      string
	baseDN   string
	bindDN   string
	bindPass string
	tenantID string
}

// NewLDAPService creates a directory service for the given LDAP endpoint.
// The tenant id is stamped onto every resolved principal.
func NewLDAPService(url, baseDN, bindDN, bindPass, tenantID string) *LDAPService {
	return &LDAPService{
		url:      url,
		baseDN:   baseDN,
		bindDN:   bindDN,
		bindPass: bindPass,
		tenantID: tenantID,
	}
}

var principalAttributes = []string{"objectGUID", "displayName", "userPrincipalName", "objectClass"}

func (s *LDAPService) ResolveByObjectID(ctx context.Context, objectID, requestingObjectID string) (*Principal, error) {
	filter := fmt.Sprintf("(objectGUID=%s)", ldap.EscapeFilter(objectID))
	return s.search(ctx, filter)
}

func (s *LDAPService) ResolveByUPN(ctx context.Context, upn, requestingObjectID string) (*Principal, error) {
	filter := fmt.Sprintf("(userPrincipalName=%s)", ldap.EscapeFilter(upn))
	return s.search(ctx, filter)
}

func (s *LDAPService) search(ctx context.Context, filter string) (*Principal, error) {
	conn, err := ldap.DialURL(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrLookupFailed, s.url, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetTimeout(time.Until(deadline))
	}

	if err := conn.Bind(s.bindDN, s.bindPass); err != nil {
		return nil, fmt.Errorf("%w: bind: %v", ErrLookupFailed, err)
	}

	req := ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1, 0, false,
		filter,
		principalAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: search: %v", ErrLookupFailed, err)
	}

	if len(res.Entries) == 0 {
		return nil, ErrNotFound
	}

	return s.principalFromEntry(res.Entries[0]), nil
}

func (s *LDAPService) principalFromEntry(entry *ldap.Entry) *Principal {
	kind := PrincipalUser
	for _, class := range entry.GetAttributeValues("objectClass") {
		if strings.EqualFold(class, "group") {
			kind = PrincipalGroup
			break
		}
	}

	return &Principal{
		ObjectID:    entry.GetAttributeValue("objectGUID"),
		Kind:        kind,
		DisplayName: entry.GetAttributeValue("displayName"),
		Upn:         entry.GetAttributeValue("userPrincipalName"),
		TenantID:    s.tenantID,
	}
}
