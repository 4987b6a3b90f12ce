package catalog

// checkDef is the source-of-truth definition for one built-in rule. It is
// compiled into a *Check by Load. Keeping definitions as plain data (rather
// than constructing *Check directly) lets builtinChecks stay a flat,
// reviewable table.
type checkDef struct {
	id          string
	group       string
	pattern     string
	severity    Severity
	description string
	hint        ChallengeHint
	predicates  []Predicate
	extract     ExtractTargets
	astOnly     bool
}

// builtinChecks is the compiled-in source of truth for the check catalog,
// grouped by domain. Patterns are written case-insensitively and anchored at
// the start of the command where that avoids matching inside an unrelated
// substring; the splitter's quote handling keeps literal arguments from being
// mistaken for these verbs.
func builtinChecks() []checkDef {
	var defs []checkDef
	defs = append(defs, fsChecks()...)
	defs = append(defs, gitChecks()...)
	defs = append(defs, k8sChecks()...)
	defs = append(defs, dockerChecks()...)
	defs = append(defs, terraformChecks()...)
	defs = append(defs, awsChecks()...)
	defs = append(defs, sqlChecks()...)
	defs = append(defs, diskChecks()...)
	defs = append(defs, shellChecks()...)
	return defs
}

func fsChecks() []checkDef {
	return []checkDef{
		{
			id:          "fs:recursive_delete_root",
			group:       "fs",
			pattern:     `(?i)^rm\s+(-[a-z]*[rf][a-z]*\s+)+/(boot|dev|etc|home|lib|lib64|media|mnt|opt|proc|root|run|sbin|srv|sys|usr|var)?(\s|$)`,
			severity:    Critical,
			description: "recursive delete rooted at a system path",
			hint:        HintMath,
			extract:     extractRmTargets,
		},
		{
			id:          "fs:recursive_delete_slash",
			group:       "fs",
			pattern:     `(?i)^rm\s+(-[a-z]*[rf][a-z]*\s+)+/(\*|\s*$)`,
			severity:    Critical,
			description: "recursive delete of the filesystem root",
			hint:        HintMath,
			extract:     extractRmTargets,
		},
		{
			id:          "fs:recursive_delete_home",
			group:       "fs",
			pattern:     `(?i)^rm\s+(-[a-z]*[rf][a-z]*\s+)+~(\s|/|$)`,
			severity:    Critical,
			description: "recursive delete of the home directory",
			hint:        HintMath,
			extract:     extractRmTargets,
		},
		{
			id:          "fs:recursive_delete",
			group:       "fs",
			pattern:     `(?i)^rm\s+-[a-z]*[rf][a-z]*(\s|$)`,
			severity:    Critical,
			description: "recursive or force delete",
			hint:        HintMath,
			extract:     extractRmTargets,
		},
		{
			id:          "fs:recursive_delete_r_only",
			group:       "fs",
			pattern:     `(?i)^rm\s+-r(\s|$)`,
			severity:    High,
			description: "recursive delete",
			extract:     extractRmTargets,
		},
		{
			id:          "fs:chmod_system_path",
			group:       "fs",
			pattern:     `(?i)^chmod\s+.*\s(?P<path>/(etc|usr|var|boot|bin|sbin)\S*)`,
			severity:    Critical,
			description: "permission change on a system path",
		},
		{
			id:          "fs:chown_system_path",
			group:       "fs",
			pattern:     `(?i)^chown\s+.*\s(?P<path>/(etc|usr|var|boot|bin|sbin)\S*)`,
			severity:    Critical,
			description: "ownership change on a system path",
		},
		{
			id:          "fs:chmod_recursive",
			group:       "fs",
			pattern:     `(?i)^chmod\s+-R(\s|$)`,
			severity:    High,
			description: "recursive permission change",
		},
		{
			id:          "fs:chown_recursive",
			group:       "fs",
			pattern:     `(?i)^chown\s+-R(\s|$)`,
			severity:    High,
			description: "recursive ownership change",
		},
		{
			id:          "fs:delete_env_file",
			group:       "fs",
			pattern:     `(?i)^rm\s+.*\s(?P<path>\S*\.env\S*)\s*$`,
			severity:    High,
			description: "deletes an environment file that exists on disk",
			predicates:  []Predicate{{Capture: "path"}},
		},
		{
			id:          "fs:overwrite_via_redirect_system_path",
			group:       "fs",
			pattern:     `(?i)>\s*(?P<path>/(etc|boot)\S*)`,
			severity:    Critical,
			description: "shell redirection overwrites a system path",
		},
	}
}

func gitChecks() []checkDef {
	return []checkDef{
		{
			id:          "git:force_push",
			group:       "git",
			pattern:     `(?i)^git\s+push\b.*(--force(\s|$)|(^|\s)-f(\s|$))`,
			severity:    Critical,
			description: "force push overwrites remote history",
			hint:        HintMath,
		},
		{
			id:          "git:force_push_with_lease",
			group:       "git",
			pattern:     `(?i)^git\s+push\b.*--force-with-lease`,
			severity:    High,
			description: "force push with lease, still rewrites remote history",
		},
		{
			id:          "git:hard_reset",
			group:       "git",
			pattern:     `(?i)^git\s+reset\s+--hard(\s|$)`,
			severity:    High,
			description: "discards uncommitted local changes",
		},
		{
			id:          "git:clean_force",
			group:       "git",
			pattern:     `(?i)^git\s+clean\s+-[a-z]*f[a-z]*(\s|$)`,
			severity:    High,
			description: "removes untracked files and directories",
		},
		{
			id:          "git:branch_delete_force",
			group:       "git",
			pattern:     `(?i)^git\s+branch\s+-D(\s|$)`,
			severity:    Medium,
			description: "force deletes a branch, including unmerged commits",
		},
		{
			id:          "git:filter_branch",
			group:       "git",
			pattern:     `(?i)^git\s+filter-branch\b`,
			severity:    High,
			description: "rewrites repository history",
		},
		{
			id:          "git:add_all",
			group:       "git",
			pattern:     `(?i)^git\s+add\s+(\.|-A|--all)(\s|$)`,
			severity:    Low,
			description: "stages every change in the working tree",
		},
	}
}

func k8sChecks() []checkDef {
	return []checkDef{
		{
			id:          "k8s:delete_cluster_scoped",
			group:       "k8s",
			pattern:     `(?i)^kubectl\s+delete\s+(node|nodes|namespace|namespaces|pv|persistentvolume|pvc|persistentvolumeclaim)\b`,
			severity:    Critical,
			description: "deletes a cluster-scoped or storage resource",
			hint:        HintMath,
		},
		{
			id:          "k8s:delete_all",
			group:       "k8s",
			pattern:     `(?i)^kubectl\s+delete\b.*--all(\s|$)`,
			severity:    Critical,
			description: "deletes every resource of the given kind",
			hint:        HintMath,
		},
		{
			id:          "k8s:delete",
			group:       "k8s",
			pattern:     `(?i)^kubectl\s+delete\b`,
			severity:    High,
			description: "deletes a cluster resource",
		},
		{
			id:          "k8s:helm_uninstall_all",
			group:       "k8s",
			pattern:     `(?i)^helm\s+uninstall\b.*--all(\s|$)`,
			severity:    Critical,
			description: "uninstalls every helm release",
		},
		{
			id:          "k8s:helm_uninstall",
			group:       "k8s",
			pattern:     `(?i)^helm\s+uninstall\b`,
			severity:    High,
			description: "uninstalls a helm release",
		},
	}
}

func dockerChecks() []checkDef {
	return []checkDef{
		{
			id:          "docker:system_prune_all",
			group:       "docker",
			pattern:     `(?i)^docker\s+system\s+prune\s+-a`,
			severity:    Critical,
			description: "removes all unused docker data, including tagged images",
		},
		{
			id:          "docker:rm_force",
			group:       "docker",
			pattern:     `(?i)^docker\s+rm\s+-f`,
			severity:    High,
			description: "force removes a running container",
		},
		{
			id:          "docker:rmi",
			group:       "docker",
			pattern:     `(?i)^docker\s+rmi\b`,
			severity:    Medium,
			description: "removes a docker image",
		},
		{
			id:          "docker:volume_rm",
			group:       "docker",
			pattern:     `(?i)^docker\s+volume\s+rm\b`,
			severity:    High,
			description: "removes a docker volume and its data",
		},
	}
}

func terraformChecks() []checkDef {
	return []checkDef{
		{
			id:          "terraform:destroy_bare",
			group:       "terraform",
			pattern:     `(?i)^terraform\s+destroy\s*$`,
			severity:    Critical,
			description: "destroys every resource in the terraform state",
			hint:        HintMath,
		},
		{
			id:          "terraform:destroy_auto_approve",
			group:       "terraform",
			pattern:     `(?i)^terraform\s+destroy\b.*-auto-approve`,
			severity:    Critical,
			description: "destroys infrastructure without a confirmation prompt",
			hint:        HintMath,
		},
		{
			id:          "terraform:destroy_resource",
			group:       "terraform",
			pattern:     `(?i)^terraform\s+destroy\s+[^-]`,
			severity:    High,
			description: "destroys a specific resource",
		},
		{
			id:          "terraform:destroy_target",
			group:       "terraform",
			pattern:     `(?i)^terraform\s+destroy\b.*-target`,
			severity:    High,
			description: "destroys a targeted resource",
		},
		{
			id:          "terraform:state_rm",
			group:       "terraform",
			pattern:     `(?i)^terraform\s+state\s+rm\b`,
			severity:    High,
			description: "removes a resource from terraform state tracking",
		},
	}
}

func awsChecks() []checkDef {
	return []checkDef{
		{
			id:          "aws:terminate_instances",
			group:       "aws",
			pattern:     `(?i)^aws\s+.*terminate-instances`,
			severity:    Critical,
			description: "terminates one or more EC2 instances",
			hint:        HintMath,
		},
		{
			id:          "aws:s3_rb_force",
			group:       "aws",
			pattern:     `(?i)^aws\s+s3\s+rb\b.*--force`,
			severity:    Critical,
			description: "force deletes an S3 bucket and all of its objects",
			hint:        HintMath,
		},
		{
			id:          "aws:rds_delete",
			group:       "aws",
			pattern:     `(?i)^aws\s+rds\s+delete-db-instance\b`,
			severity:    Critical,
			description: "deletes an RDS database instance",
			hint:        HintMath,
		},
		{
			id:          "aws:gcloud_delete_quiet",
			group:       "aws",
			pattern:     `(?i)^gcloud\s+.*delete\b.*--quiet`,
			severity:    High,
			description: "deletes a cloud resource without an interactive prompt",
		},
	}
}

func sqlChecks() []checkDef {
	return []checkDef{
		{
			id:          "sql:drop_database",
			group:       "sql",
			pattern:     `(?i)\bDROP\s+DATABASE\b`,
			severity:    Critical,
			description: "drops an entire database",
			hint:        HintMath,
		},
		{
			id:          "sql:drop_schema",
			group:       "sql",
			pattern:     `(?i)\bDROP\s+SCHEMA\b`,
			severity:    Critical,
			description: "drops an entire schema",
			hint:        HintMath,
		},
		{
			id:          "sql:drop_table",
			group:       "sql",
			pattern:     `(?i)\bDROP\s+TABLE\b`,
			severity:    High,
			description: "drops a table",
		},
		{
			id:          "sql:truncate_table",
			group:       "sql",
			pattern:     `(?i)\bTRUNCATE\s+TABLE\b`,
			severity:    Critical,
			description: "removes all rows from a table",
			hint:        HintMath,
		},
		{
			id:          "sql:delete_no_where",
			group:       "sql",
			pattern:     "(?i)DELETE\\s+FROM\\s+[\\w.`\"\\[\\]]+\\s*(;|$|--|/\\*)",
			severity:    Critical,
			description: "deletes every row from a table (no WHERE clause)",
			hint:        HintMath,
		},
		{
			id:          "sql:delete_with_where",
			group:       "sql",
			pattern:     `(?i)\bDELETE\s+FROM\b.*\bWHERE\b`,
			severity:    High,
			description: "deletes rows matching a filter",
		},
	}
}

func diskChecks() []checkDef {
	return []checkDef{
		{
			id:          "disk:dd_to_device",
			group:       "disk",
			pattern:     `(?i)\bdd\b.*\bof=/dev/`,
			severity:    Critical,
			description: "writes raw bytes directly to a block device",
			hint:        HintMath,
		},
		{
			id:          "disk:mkfs",
			group:       "disk",
			pattern:     `(?i)^mkfs(\.\w+)?\b`,
			severity:    Critical,
			description: "formats a filesystem, destroying existing data",
			hint:        HintMath,
		},
		{
			id:          "disk:fdisk",
			group:       "disk",
			pattern:     `(?i)^(fdisk|parted|gdisk)\b`,
			severity:    Critical,
			description: "manipulates disk partitions",
			hint:        HintMath,
		},
	}
}

// shellChecks registers the AST-assisted structural group. Their Pattern is
// left nil (ASTOnly); they are raised by internal/matcher's syntax.Walk pass
// over mvdan.cc/sh/v3/syntax rather than by regex.
func shellChecks() []checkDef {
	return []checkDef{
		{
			id:          "shell:redirection",
			group:       "shell",
			severity:    Medium,
			description: "shell redirection detected structurally",
			astOnly:     true,
		},
		{
			id:          "shell:subshell",
			group:       "shell",
			severity:    Medium,
			description: "subshell command detected structurally",
			astOnly:     true,
		},
		{
			id:          "shell:command_substitution",
			group:       "shell",
			severity:    Medium,
			description: "command substitution detected structurally, may hide a risky inner command",
			astOnly:     true,
		},
		{
			id:          "shell:pipeline",
			group:       "shell",
			severity:    Low,
			description: "pipeline detected structurally",
			astOnly:     true,
		},
	}
}
