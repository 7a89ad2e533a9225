package httpapi

import (
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// resolveParams is the struct-tag-validated shape of the /resolve query
// string, mirroring the teacher's AppConfig validation idiom: parse into
// a plain struct, then run one validator.Struct call instead of hand
// checking each field.
type resolveParams struct {
	Domain string `validate:"required,fqdn"`
	Type   string `validate:"required,oneof=A AAAA NS CNAME SOA TXT"`
	Host   string `validate:"omitempty,ip_port"`
}

// hostPort normalizes a bare IPv4/IPv6 address to host:53 so the ip_port
// tag can validate it the same way it validates an explicit host:port,
// and so downstream code always has a port to dial.
func hostPort(raw string) string {
	if raw == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(raw); err == nil {
		return raw
	}
	return net.JoinHostPort(raw, strconv.Itoa(directQueryPort))
}

// validIPPort mirrors config.validIPPort (unexported there, so duplicated
// here rather than exported solely for this one caller).
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return nil, err
	}
	return v, nil
}

func parseParams(v *validator.Validate, domainParam, typeParam, hostParam string) (resolveParams, error) {
	p := resolveParams{
		Domain: strings.TrimSuffix(domainParam, "."),
		Type:   strings.ToUpper(typeParam),
		Host:   hostPort(hostParam),
	}
	if err := v.Struct(&p); err != nil {
		return resolveParams{}, err
	}
	return p, nil
}
