package models

// ResourceType identifies the kind of cloud resource a finding refers to.
type ResourceType string

const (
	ResourceAWSEC2Instance   ResourceType = "EC2_INSTANCE"
	ResourceAWSEBSVolume     ResourceType = "EBS_VOLUME"
	ResourceAWSEBSSnapshot   ResourceType = "EBS_SNAPSHOT"
	ResourceAWSElasticIP     ResourceType = "ELASTIC_IP"
	ResourceAWSNATGateway    ResourceType = "NAT_GATEWAY"
	ResourceAWSClassicELB    ResourceType = "CLASSIC_LOAD_BALANCER"
	ResourceAWSLoadBalancer  ResourceType = "LOAD_BALANCER"
	ResourceAWSBeanstalkEnv  ResourceType = "BEANSTALK_ENVIRONMENT"
	ResourceAWSOpsWorksStack ResourceType = "OPSWORKS_STACK"
	ResourceAWSRDSInstance   ResourceType = "RDS_INSTANCE"
	ResourceAWSRDSSnapshot   ResourceType = "RDS_SNAPSHOT"
	ResourceAWSS3Bucket      ResourceType = "S3_BUCKET"
)

// Detail is one descriptive attribute of a finding. Details are kept as an
// ordered slice rather than a map so rendered reports are stable.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Finding is one discovered, still-running resource reported for review.
// It is produced by a check and consumed only by the report formatter.
type Finding struct {
	Check        string       `json:"check"`
	Region       string       `json:"region"`
	Profile      string       `json:"profile"`
	AccountID    string       `json:"account_id,omitempty"`
	ResourceID   string       `json:"resource_id"`
	ResourceType ResourceType `json:"resource_type"`
	Message      string       `json:"message"`
	Details      []Detail     `json:"details,omitempty"`
}

// Detail returns the value stored under key, or "" when absent.
func (f Finding) Detail(key string) string {
	for _, d := range f.Details {
		if d.Key == key {
			return d.Value
		}
	}
	return ""
}
