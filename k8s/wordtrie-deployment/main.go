package main

import (
	"fmt"
	"os"
	"strings"

	appsv1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/apps/v1"
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// seedWords is loaded by every server at startup.
var seedWords = []string{
	"Srinidhi",
	"Sun",
	"Sunny",
	"Sunny1",
}

func main() {

	deploymentName := "wordtrie"
	namespace := deploymentName
	version := os.Getenv("WORDTRIE_VERSION")
	pulumi.Run(func(ctx *pulumi.Context) error {

		appLabels := pulumi.StringMap{
			"app":     pulumi.String(deploymentName),
			"version": pulumi.String(version),
		}

		md := &metav1.ObjectMetaArgs{
			Labels:    appLabels,
			Namespace: pulumi.StringPtr(namespace),
			Name:      pulumi.StringPtr(deploymentName),
		}

		wordsConfig, err := corev1.NewConfigMap(ctx, deploymentName, &corev1.ConfigMapArgs{
			Metadata: md,
			Data:     pulumi.StringMap{"words.txt": pulumi.String(strings.Join(seedWords, "\n") + "\n")},
		})
		if err != nil {
			return err
		}

		svc, err := corev1.NewService(ctx, deploymentName, &corev1.ServiceArgs{
			Metadata: md,
			Spec: corev1.ServiceSpecArgs{
				Ports: corev1.ServicePortArray{
					corev1.ServicePortArgs{
						TargetPort: pulumi.Int(1337),
						Port:       pulumi.Int(80),
					},
				},
				Selector: appLabels,
			},
		})
		if err != nil {
			return err
		}

		ctx.Export("service name", svc.Metadata.Name())

		configVolumeName := pulumi.String("wordtrie-words")

		deployment, err := appsv1.NewDeployment(ctx, deploymentName, &appsv1.DeploymentArgs{
			Metadata: md,
			Spec: appsv1.DeploymentSpecArgs{
				// the trie lives in memory, so replicas would drift apart after writes.
				Replicas: pulumi.Int(1),
				Selector: &metav1.LabelSelectorArgs{
					MatchLabels: appLabels,
				},
				Template: &corev1.PodTemplateSpecArgs{
					Metadata: &metav1.ObjectMetaArgs{
						Labels: appLabels,
					},
					Spec: &corev1.PodSpecArgs{
						Containers: corev1.ContainerArray{
							corev1.ContainerArgs{
								Name: pulumi.String("wordtrie"),
								Args: pulumi.StringArray{
									pulumi.String("/wordtrie"), pulumi.String("-w"), pulumi.String("/etc/wordtrie/words.txt"),
								},
								ImagePullPolicy: pulumi.String("Always"),
								Image:           pulumi.String(fmt.Sprintf("gcr.io/sapient-fabric-207305/wordtrie:%s", version)),
								Ports: corev1.ContainerPortArray{
									corev1.ContainerPortArgs{
										ContainerPort: pulumi.Int(1337),
									},
								},
								ReadinessProbe: &corev1.ProbeArgs{
									HttpGet: &corev1.HTTPGetActionArgs{
										Path: pulumi.String("/healthz"),
										Port: pulumi.Int(1337),
									},
								},
								VolumeMounts: corev1.VolumeMountArray{
									corev1.VolumeMountArgs{
										Name:      configVolumeName,
										MountPath: pulumi.String("/etc/wordtrie/"),
									},
								},
							},
						},
						Volumes: corev1.VolumeArray{
							corev1.VolumeArgs{
								Name: configVolumeName,
								ConfigMap: &corev1.ConfigMapVolumeSourceArgs{
									Name: wordsConfig.Metadata.Name(),
								},
							},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}

		ctx.Export("deployment name", deployment.Metadata.Name())

		return nil
	})
}
